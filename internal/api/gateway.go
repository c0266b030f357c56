package api

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

// HandleAPIGateway adapts Handle to API Gateway proxy integration events.
func (h *Handler) HandleAPIGateway(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	body := []byte(req.Body)
	var readErr error
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			readErr = fmt.Errorf("decode base64 body: %w", err)
		}
		body = decoded
	}
	if readErr == nil && len(body) > MaxBodyBytes {
		readErr = ErrBodyTooLarge
	}

	resp := h.Handle(ctx, strings.ToUpper(req.HTTPMethod), body, readErr)
	return events.APIGatewayProxyResponse{
		StatusCode: resp.Status,
		Headers:    resp.Headers,
		Body:       string(resp.Body),
	}, nil
}
