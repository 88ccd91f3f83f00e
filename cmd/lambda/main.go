package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/xavierca1/dental-funnel/internal/app"
	"github.com/xavierca1/dental-funnel/internal/config"
	"github.com/xavierca1/dental-funnel/internal/infra/logger"
)

// Função Lambda atrás de um API Gateway HTTP API (payload v2). Serve o mesmo
// router do cmd/api; o worker da fila roda apenas no servidor longo.
func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("falha ao iniciar logger: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		zlog.Fatal("configuração inválida", zap.Error(err))
	}

	// Montado uma vez por container e reaproveitado entre invocações.
	application, err := app.New(context.Background(), cfg, zlog)
	if err != nil {
		zlog.Fatal("falha ao montar aplicação", zap.Error(err))
	}

	lambda.Start(func(ctx context.Context, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		return handle(ctx, application.Handler, evt)
	})
}

func handle(ctx context.Context, h http.Handler, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	body, err := decodeBody(evt)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusBadRequest, Body: `{"error":"invalid body"}`}, nil
	}

	req, err := toRequest(ctx, evt, body)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusInternalServerError}, nil
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	out := events.APIGatewayV2HTTPResponse{
		StatusCode: rec.Code,
		Body:       rec.Body.String(),
		Headers:    map[string]string{},
	}
	for k, v := range rec.Header() {
		out.Headers[strings.ToLower(k)] = strings.Join(v, ",")
	}
	return out, nil
}

func toRequest(ctx context.Context, evt events.APIGatewayV2HTTPRequest, body []byte) (*http.Request, error) {
	method := strings.ToUpper(strings.TrimSpace(evt.RequestContext.HTTP.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := strings.TrimSpace(evt.RawPath)
	if path == "" {
		path = strings.TrimSpace(evt.RequestContext.HTTP.Path)
	}
	path = stripStage(path, evt.RequestContext.Stage)
	if path == "" {
		path = "/"
	}
	target := path
	if qs := strings.TrimSpace(evt.RawQueryString); qs != "" {
		target += "?" + qs
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	for k, v := range evt.Headers {
		req.Header.Set(k, v)
	}
	if len(evt.Cookies) > 0 {
		req.Header.Set("Cookie", strings.Join(evt.Cookies, "; "))
	}
	if host := strings.TrimSpace(evt.RequestContext.DomainName); host != "" {
		req.Host = host
	}
	// IP real do cliente para o rate limit
	if ip := strings.TrimSpace(evt.RequestContext.HTTP.SourceIP); ip != "" {
		req.RemoteAddr = ip + ":0"
	}
	return req, nil
}

// stripStage remove o prefixo /{stage} que o API Gateway inclui no rawPath
// quando o stage não é o $default.
func stripStage(path, stage string) string {
	stage = strings.TrimSpace(stage)
	if stage == "" || stage == "$default" {
		return path
	}
	prefix := "/" + stage
	if path == prefix {
		return "/"
	}
	if strings.HasPrefix(path, prefix+"/") {
		return strings.TrimPrefix(path, prefix)
	}
	return path
}

func decodeBody(evt events.APIGatewayV2HTTPRequest) ([]byte, error) {
	if !evt.IsBase64Encoded {
		return []byte(evt.Body), nil
	}
	return base64.StdEncoding.DecodeString(evt.Body)
}
