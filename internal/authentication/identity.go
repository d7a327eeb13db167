package authentication

import (
	"fmt"
	"strconv"

	"github.com/cinebook/booking-gateway/internal/models"
	"github.com/golang-jwt/jwt/v4"
)

// Identity is what the access token says about its bearer. The signature is not checked so
// it is only a hint and never used for access decisions.
type Identity struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	RoleID   int    `json:"roleId"`
	FullName string `json:"fullName"`
	Verified bool   `json:"verified"`
}

// User is the profile confirmed by the backend
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone,omitempty"`
	RoleID   int    `json:"roleId"`
	Verified bool   `json:"verified"`
}

// profilePayload accepts the field spellings the backend uses for a user profile
type profilePayload struct {
	ID       models.FlexibleID `json:"id"`
	UserID   models.FlexibleID `json:"user_id"`
	Email    string            `json:"email"`
	FullName string            `json:"full_name"`
	Name     string            `json:"name"`
	Phone    string            `json:"phone"`
	RoleID   models.FlexibleID `json:"role_id"`
}

func (p profilePayload) user() User {
	output := User{
		ID:       p.ID.String(),
		Email:    p.Email,
		FullName: p.FullName,
		Phone:    p.Phone,
		Verified: true,
	}
	if output.ID == "" {
		output.ID = p.UserID.String()
	}
	if output.FullName == "" {
		output.FullName = p.Name
	}
	if roleID, err := strconv.Atoi(p.RoleID.String()); err == nil {
		output.RoleID = roleID
	}
	return output
}

// decodeIdentity reads the claims of an access token without verifying it
func decodeIdentity(accessToken string) (Identity, error) {
	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(accessToken, claims)
	if err != nil {
		return Identity{}, fmt.Errorf("cannot decode the access token: %w", err)
	}
	output := Identity{
		UserID:   claimString(claims, "user_id", "sub"),
		Email:    claimString(claims, "email"),
		FullName: claimString(claims, "full_name", "name"),
	}
	if roleID, err := strconv.Atoi(claimString(claims, "role_id")); err == nil {
		output.RoleID = roleID
	}
	if output.FullName == "" {
		output.FullName = output.Email
	}
	return output, nil
}

// claimString returns the first claim present among keys, numbers are formatted without decimals
func claimString(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		switch val := claims[key].(type) {
		case string:
			if val != "" {
				return val
			}
		case float64:
			return strconv.FormatFloat(val, 'f', -1, 64)
		}
	}
	return ""
}
