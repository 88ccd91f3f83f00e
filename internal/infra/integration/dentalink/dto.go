package dentalink

import "fmt"

// Patient é o paciente do Dentalink (campos em espanhol, como na API).
type Patient struct {
	ID        int    `json:"id,omitempty"`
	Nombre    string `json:"nombre"`
	Apellidos string `json:"apellidos"`
	RUT       string `json:"rut,omitempty"`
	Email     string `json:"email,omitempty"`
	Celular   string `json:"celular,omitempty"`
}

type CreatePatientInput struct {
	FirstName string
	LastName  string
	RUT       string
	Email     string
	Phone     string
}

type Dentist struct {
	ID         int    `json:"id"`
	Nombre     string `json:"nombre"`
	Apellidos  string `json:"apellidos"`
	Habilitado int    `json:"habilitado,omitempty"`
}

type Slot struct {
	Fecha      string `json:"fecha"`
	HoraInicio string `json:"hora_inicio"`
	HoraFin    string `json:"hora_fin,omitempty"`
	IDDentista int    `json:"id_dentista,omitempty"`
	IDSucursal int    `json:"id_sucursal,omitempty"`
	Disponible bool   `json:"disponible"`
}

type SlotQuery struct {
	DentistID string
	BranchID  string
	Date      string // YYYY-MM-DD
}

type CreateAppointmentInput struct {
	IDPaciente int    `json:"id_paciente"`
	IDDentista int    `json:"id_dentista"`
	IDSucursal int    `json:"id_sucursal"`
	IDEstado   int    `json:"id_estado,omitempty"`
	IDSillon   int    `json:"id_sillon,omitempty"`
	Fecha      string `json:"fecha"`
	HoraInicio string `json:"hora_inicio"`
	Duracion   int    `json:"duracion"`
	Comentario string `json:"comentario,omitempty"`
}

type Appointment struct {
	ID         int    `json:"id"`
	IDPaciente int    `json:"id_paciente"`
	IDDentista int    `json:"id_dentista"`
	Fecha      string `json:"fecha"`
	HoraInicio string `json:"hora_inicio"`
	Estado     string `json:"estado_cita,omitempty"`
}

type envelope[T any] struct {
	Data T `json:"data"`
}

// APIError representa uma resposta não-2xx do Dentalink.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("dentalink: status %d: %s", e.StatusCode, e.Body)
}
