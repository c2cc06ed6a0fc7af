package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL vigencia aplicada cuando el caller no indica una duración.
const DefaultTTL = 15 * time.Minute

// Errores de verificación. En el borde HTTP los tres se tratan igual (401),
// sin revelar cuál ocurrió.
var (
	ErrInvalidToken    = errors.New("jwt: token inválido")
	ErrExpired         = errors.New("jwt: token expirado")
	ErrMalformedClaims = errors.New("jwt: claims incompletos")
	ErrEmptySecret     = errors.New("jwt: secret vacío")
)

// Claims incluye los claims estándar JWT más el rol del usuario.
// Subject lleva el identificador de login (username o teléfono).
type Claims struct {
	jwt.RegisteredClaims
	Role int `json:"role"`
}

// Signer emite y verifica tokens HS256 con un secreto fijado al arrancar.
type Signer struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewSigner construye el firmador. El secreto es obligatorio.
func NewSigner(secret, issuer string) (*Signer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Signer{secret: []byte(secret), issuer: issuer, now: time.Now}, nil
}

// WithClock devuelve una copia del firmador que usa el reloj indicado (tests).
func (s *Signer) WithClock(now func() time.Time) *Signer {
	cp := *s
	cp.now = now
	return &cp
}

// Issue genera un token firmado con subject, rol y expiración. ttl == 0 usa DefaultTTL.
func (s *Signer) Issue(subject string, role int, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("firmar token: %w", err)
	}
	return signed, nil
}

// Verify valida firma y expiración y devuelve los claims.
// Retorna ErrInvalidToken, ErrExpired o ErrMalformedClaims.
func (s *Signer) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrMalformedClaims
	}
	return claims, nil
}
