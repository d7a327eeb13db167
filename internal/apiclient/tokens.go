package apiclient

import (
	"encoding/json"
	"fmt"

	"github.com/cinebook/booking-gateway/internal/models"
)

type tokenPayload struct {
	AccessToken       string          `json:"accessToken"`
	RefreshToken      string          `json:"refreshToken"`
	AccessTokenSnake  string          `json:"access_token"`
	RefreshTokenSnake string          `json:"refresh_token"`
	Data              json.RawMessage `json:"data"`
}

func (t tokenPayload) pair() models.TokenPair {
	output := models.TokenPair{Access: t.AccessToken, Refresh: t.RefreshToken}
	if output.Access == "" {
		output.Access = t.AccessTokenSnake
	}
	if output.Refresh == "" {
		output.Refresh = t.RefreshTokenSnake
	}
	return output
}

// ParseTokenPair reads a token pair from a login or refresh response. Both camelCase and
// snake_case field names are accepted, either at the top level or nested under "data".
func ParseTokenPair(body []byte) (models.TokenPair, error) {
	var payload tokenPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return models.TokenPair{}, fmt.Errorf("cannot parse token response: %w", err)
	}
	tokens := payload.pair()
	if tokens.Access == "" && len(payload.Data) > 0 && payload.Data[0] == '{' {
		var nested tokenPayload
		if err := json.Unmarshal(payload.Data, &nested); err != nil {
			return models.TokenPair{}, fmt.Errorf("cannot parse token response: %w", err)
		}
		tokens = nested.pair()
	}
	if tokens.Access == "" {
		return models.TokenPair{}, ErrMissingAccessToken
	}
	return tokens, nil
}
