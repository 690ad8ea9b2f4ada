package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOnlyJSONRoundTrip(t *testing.T) {
	d := NewDateOnly(2025, time.March, 9)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-03-09"`, string(data))

	var parsed DateOnly
	require.NoError(t, json.Unmarshal([]byte(`"2025-03-09"`), &parsed))
	assert.True(t, parsed.Equal(d.Time))

	assert.Error(t, json.Unmarshal([]byte(`"09/03/2025"`), &parsed))
}

func TestDateOnlyScan(t *testing.T) {
	var d DateOnly

	require.NoError(t, d.Scan("2025-03-09"))
	assert.Equal(t, 2025, d.Year())

	require.NoError(t, d.Scan([]byte("2024-12-31")))
	assert.Equal(t, time.December, d.Month())

	require.NoError(t, d.Scan(time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2023, d.Year())

	assert.Error(t, d.Scan(42))
}

func TestDateOnlyValue(t *testing.T) {
	d := NewDateOnly(2025, time.March, 9)
	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2025-03-09", v)
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, RoleSupport.Valid())
	assert.False(t, UserRole("Root").Valid())
	assert.True(t, TicketInProgress.Valid())
	assert.False(t, TicketStatus("Reopened").Valid())
	assert.True(t, MethodPayPal.Valid())
	assert.False(t, PaymentMethod("Crypto").Valid())
	assert.True(t, CategoryTransactional.Valid())
	assert.False(t, NotificationCategory("Spam").Valid())
}
