package util

import (
	"errors"
	"fmt"
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Tenant is one identity provider tenant whose tokens are accepted.
type Tenant struct {
	Name     string
	Issuer   string
	Secret   []byte
	Audience string
}

// Principal is the verified caller.
type Principal struct {
	UserID string
	Email  string
	Tenant string
}

// TenantRegistry holds one verifier per issuer. It is built once at startup
// and is read-only afterwards.
type TenantRegistry struct {
	byIssuer map[string]Tenant
}

func NewTenantRegistry(tenants []Tenant) (*TenantRegistry, error) {
	if len(tenants) == 0 {
		return nil, errors.New("no auth tenants configured")
	}

	byIssuer := make(map[string]Tenant, len(tenants))
	for _, t := range tenants {
		if t.Name == "" || t.Issuer == "" {
			return nil, fmt.Errorf("auth tenant %q: name and issuer are required", t.Name)
		}
		if len(t.Secret) == 0 {
			return nil, fmt.Errorf("auth tenant %q: secret is required", t.Name)
		}
		if _, dup := byIssuer[t.Issuer]; dup {
			return nil, fmt.Errorf("auth tenant %q: issuer %s is already registered", t.Name, t.Issuer)
		}
		byIssuer[t.Issuer] = t
	}
	return &TenantRegistry{byIssuer: byIssuer}, nil
}

// Tenant returns the tenant registered under name.
func (r *TenantRegistry) Tenant(name string) (Tenant, bool) {
	for _, t := range r.byIssuer {
		if t.Name == name {
			return t, true
		}
	}
	return Tenant{}, false
}

// Verify picks the tenant by the token's issuer and validates the token with
// that tenant's secret and audience.
func (r *TenantRegistry) Verify(tokenString string) (*Principal, error) {
	var tenant Tenant
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		issuer, err := token.Claims.GetIssuer()
		if err != nil {
			return nil, err
		}
		t, ok := r.byIssuer[issuer]
		if !ok {
			return nil, ErrUnknownIssuer
		}
		tenant = t
		return t.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, ErrUnknownIssuer) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidToken, ErrUnknownIssuer)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if tenant.Audience != "" && !slices.Contains(claims.Audience, tenant.Audience) {
		return nil, fmt.Errorf("%w: audience mismatch", ErrInvalidToken)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return &Principal{
		UserID: claims.Subject,
		Email:  claims.Email,
		Tenant: tenant.Name,
	}, nil
}
