package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/opshub/pkg/jwt"
)

const (
	testJWTSecret  = "test-secret-key-for-unit-tests"
	testEmployeeID = "EMP001"
	testIssuer     = "ops-hub-test"
)

func TestJWT_GenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testEmployeeID, "shivam", "AREA_LEAD", testIssuer, 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)

	assert.Equal(t, testEmployeeID, claims.EmployeeID)
	assert.Equal(t, testEmployeeID, claims.Subject)
	assert.Equal(t, "shivam", claims.Username)
	assert.Equal(t, "AREA_LEAD", claims.UserType)
	assert.NotEmpty(t, claims.ID, "cada token debe llevar jti para poder revocarlo")
}

func TestJWT_CadaTokenTieneJTIDistinto(t *testing.T) {
	a, err := pkgjwt.Generate(testJWTSecret, testEmployeeID, "shivam", "AREA_LEAD", testIssuer, 60)
	require.NoError(t, err)
	b, err := pkgjwt.Generate(testJWTSecret, testEmployeeID, "shivam", "AREA_LEAD", testIssuer, 60)
	require.NoError(t, err)

	ca, err := pkgjwt.Parse(testJWTSecret, a)
	require.NoError(t, err)
	cb, err := pkgjwt.Parse(testJWTSecret, b)
	require.NoError(t, err)
	assert.NotEqual(t, ca.ID, cb.ID)
}

func TestJWT_TokenExpirado_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testEmployeeID, "shivam", "AREA_LEAD", testIssuer, -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testJWTSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestJWT_SecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testEmployeeID, "shivam", "AREA_LEAD", testIssuer, 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err, "secret incorrecto debe invalidar el token")
}

func TestJWT_SecretVacio_RetornaError(t *testing.T) {
	_, err := pkgjwt.Generate("", testEmployeeID, "shivam", "AREA_LEAD", testIssuer, 60)
	assert.Error(t, err)
}

func TestJWT_ExpiresAtSinVerificarFirma(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testEmployeeID, "shivam", "AREA_LEAD", testIssuer, 30)
	require.NoError(t, err)

	exp, ok := pkgjwt.ExpiresAt(tok)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), exp, time.Minute)

	_, ok = pkgjwt.ExpiresAt("token-opaco-no-jwt")
	assert.False(t, ok, "un token opaco no tiene expiración legible")
}
