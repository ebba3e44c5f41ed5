package application

import (
	"errors"
	"fmt"

	"github.com/ericfisherdev/textenhance/internal/domain/model"
)

// User-facing failure messages.
const (
	msgInvalidFormat     = `Invalid API key format. Key should start with "sk-" followed by 32 or more characters.`
	msgMissingCredential = "API key not found. Please configure your Deepseek API key in settings."
	msgAuth              = "Invalid API key. Please check your settings."
	msgRateLimited       = "Rate limit exceeded. Please try again later."
	msgServer            = "Deepseek API server error. Please try again later."
	msgMalformed         = "Invalid API response format"
	msgNetwork           = "Network error. Please check your internet connection."
	msgFallback          = "Failed to enhance text. Please try again later."
)

// UserMessage translates err into the message shown to the user.
func UserMessage(err error) string {
	var ee *model.EnhanceError
	if !errors.As(err, &ee) {
		return msgFallback
	}

	switch ee.Kind {
	case model.ErrorInvalidFormat:
		return msgInvalidFormat
	case model.ErrorMissingCredential:
		return msgMissingCredential
	case model.ErrorAuth:
		return msgAuth
	case model.ErrorRateLimited:
		return msgRateLimited
	case model.ErrorServer:
		return msgServer
	case model.ErrorRequest:
		return fmt.Sprintf("API error (%d): %s", ee.Status, ee.Message)
	case model.ErrorMalformedResponse:
		return msgMalformed
	case model.ErrorNetwork:
		return msgNetwork
	}

	if ee.Message != "" {
		return ee.Message
	}
	return msgFallback
}

// failureResult converts err into a serializable result.
func failureResult(err error) model.EnhancementResult {
	kind := model.KindOf(err)
	return model.EnhancementResult{ErrorKind: kind, Message: UserMessage(err)}
}
