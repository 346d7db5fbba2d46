package upstream

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/clinicdesk/ui-gateway/internal/errors"
)

func TestDecodeList_BareArray(t *testing.T) {
	raw := json.RawMessage(`[{"id":1,"name":"Central"},{"id":2,"name":"North"}]`)

	lst, err := decodeList[Clinic](raw, "clinics")
	require.NoError(t, err)
	assert.Len(t, lst.Items, 2)
	assert.Equal(t, 2, lst.Total)
	assert.Equal(t, "Central", lst.Items[0].Name)
}

func TestDecodeList_DataMetaEnvelope(t *testing.T) {
	raw := json.RawMessage(`{"data":[{"id":3,"first_name":"Sara"}],"meta":{"total":41}}`)

	lst, err := decodeList[Patient](raw, "patients")
	require.NoError(t, err)
	assert.Len(t, lst.Items, 1)
	assert.Equal(t, 41, lst.Total)
}

func TestDecodeList_NamedCollection(t *testing.T) {
	raw := json.RawMessage(`{"employees":[{"user_id":5,"first_name":"Huda","is_secretary":1}]}`)

	lst, err := decodeList[Employee](raw, "employees")
	require.NoError(t, err)
	require.Len(t, lst.Items, 1)
	assert.Equal(t, int64(5), lst.Items[0].UserID)
	assert.Equal(t, 1, lst.Items[0].IsSecretary)
}

func TestDecodeList_UnrecognizedShapeFailsLoudly(t *testing.T) {
	raw := json.RawMessage(`{"surprise":{"nested":true}}`)

	_, err := decodeList[Clinic](raw, "clinics")
	require.Error(t, err)
	assert.True(t, apperrors.IsUpstream(err))
}

func TestDecodeList_EmptyBody(t *testing.T) {
	_, err := decodeList[Clinic](json.RawMessage(``), "clinics")
	require.Error(t, err)
	assert.True(t, apperrors.IsUpstream(err))
}
