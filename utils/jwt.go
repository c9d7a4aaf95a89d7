package utils

import (
	"errors"

	"github.com/tmurray-at-tygershark/solushipX-sub005/config"

	"github.com/golang-jwt/jwt"
)

func jwtSecret() []byte {
	secret := config.AppConfig.JWTSecret
	if secret == "" {
		secret = "soluship-dev"
	}
	return []byte(secret)
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret(), nil
	})
}

// ExtractOperatorFromToken extracts the operator's user id ("sub") and
// company id ("cid") claims from a valid token string.
func ExtractOperatorFromToken(tokenString string) (userID string, companyID string, err error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return "", "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", "", errors.New("token does not contain a valid 'sub' claim")
	}
	cid, ok := claims["cid"].(string)
	if !ok || cid == "" {
		return "", "", errors.New("token does not contain a valid 'cid' claim")
	}

	return sub, cid, nil
}
