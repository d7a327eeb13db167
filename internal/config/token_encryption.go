package config

import "fmt"

type TokenEncryptionConfig struct {
	Enabled   bool
	SecretKey RedactedString
}

func (c *TokenEncryptionConfig) Validate(e RunningEnvironment) error {
	if c.Enabled && len(c.SecretKey) != 32 {
		return fmt.Errorf(
			"token encryption key has to be 32 bytes long, the provided one is %d long",
			len(c.SecretKey),
		)
	}
	if e == Production && !c.Enabled {
		return fmt.Errorf("token encryption cannot be disabled in production")
	}
	return nil
}
