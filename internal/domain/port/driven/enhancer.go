package driven

import (
	"context"

	"github.com/ericfisherdev/textenhance/internal/domain/model"
)

// Enhancer defines the driven port for the remote chat-completion endpoint.
// Failures are returned as *model.EnhanceError.
type Enhancer interface {
	Enhance(ctx context.Context, req model.EnhancementRequest, secret string) (string, error)
}
