package api

import (
	"encoding/csv"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminExportPending(t *testing.T) {
	a, r := newTestAPI(t)
	users := seedPendingUsers(t, a, 3)

	w := doJSON(t, r, http.MethodGet, "/admin/export-pending-users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "users_export.csv")

	rows, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, []string{
		"Registration ID", "Full Name", "Mothers Maiden Name as Surname",
		"Gothram", "Mobile", "Email", "Current Address", "Current State",
		"Current District", "Current Mandal", "Current Pincode", "Status",
		"Registered Date", "Approved Date",
	}, rows[0])

	// Newest first, approved date always blank on this export
	assert.Equal(t, users[2].RegistrationID, rows[1][0])
	assert.Equal(t, "pending", rows[1][11])
	assert.Empty(t, rows[1][13])
}

func TestAdminExportPendingHonorsFilters(t *testing.T) {
	a, r := newTestAPI(t)
	users := seedPendingUsers(t, a, 3)

	require.NoError(t, a.DB.Model(&users[0]).Update("surname", "Sharma").Error)

	w := doJSON(t, r, http.MethodGet, "/admin/export-pending-users?surname=Sharma", nil)
	require.Equal(t, http.StatusOK, w.Code)

	rows, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, users[0].RegistrationID, rows[1][0])
}
