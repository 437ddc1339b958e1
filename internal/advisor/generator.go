// Package advisor talks to the generative advice service: chat advice,
// the onboarding conversation and receipt analysis. Every exported request
// degrades to a fallback value instead of returning an error.
package advisor

import (
	"context"
	"errors"
)

// Message roles understood by the advice service.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ErrEmptyResponse is returned by a Generator when the service answered with no text.
var ErrEmptyResponse = errors.New("empty response from model")

// Message is one turn of a conversation.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Image is inline image content sent along with the last message.
type Image struct {
	MIMEType string
	Data     []byte
}

// Request is a single call to the advice service.
type Request struct {
	SystemInstruction string
	Messages          []Message
	// Temperature is left to the service default when nil.
	Temperature      *float32
	Image            *Image
	ResponseMIMEType string
}

// Generator is the port to the remote text/vision model.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}
