package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// TypeAccess — значение token_type для access-токена.
	TypeAccess = "access"
	// TypeRefresh — значение token_type для refresh-токена.
	TypeRefresh = "refresh"
)

// GenerateToken создает access-токен с заданными userID, email и role,
// подписывая его секретным ключом. Время жизни определяется tokenTTL.
func (j *MakerImpl) GenerateToken(userID int, email, role string) (string, error) {
	return j.generate(userID, email, role, TypeAccess, j.tokenTTL)
}

// GenerateRefreshToken создает refresh-токен, используемый только для
// получения новой пары токенов.
func (j *MakerImpl) GenerateRefreshToken(userID int, email, role string) (string, error) {
	return j.generate(userID, email, role, TypeRefresh, j.refreshTTL)
}

func (j *MakerImpl) generate(userID int, email, role, tokenType string, ttl time.Duration) (string, error) {
	claims := CustomClaims{
		UserID:    userID,
		Email:     email,
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken парсит JWT токен, проверяет его подпись и валидность,
// возвращает CustomClaims с данными, если токен корректен.
func (j *MakerImpl) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}
