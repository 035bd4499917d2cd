package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Users are serialized as associations of orders, ledger entries and stock
// records, so the credential hash must never reach a response body.
func TestUserJSONHidesPasswordHash(t *testing.T) {
	user := User{
		ID:           1,
		Name:         "Sami",
		Email:        "sami@example.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		Role:         RolePharmacist,
	}

	raw, err := json.Marshal(user)
	require.NoError(t, err)

	assert.NotContains(t, string(raw), "$2a$10$")
	assert.NotContains(t, string(raw), "PasswordHash")

	order := Order{ID: 5, PharmacistID: 1, Pharmacist: user}
	raw, err = json.Marshal(order)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "$2a$10$")
}
