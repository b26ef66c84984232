package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/demolux/storefront/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type addItemBody struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=1,max=99"`
}

func TestDecodeJSONBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"productId":"p1","quantity":2}`))
	var body addItemBody
	require.NoError(t, DecodeJSONBody(req, &body))
	assert.Equal(t, addItemBody{ProductID: "p1", Quantity: 2}, body)
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"productId":"p1","quantity":1,"extra":true}`))
	var body addItemBody
	err := DecodeJSONBody(req, &body)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestDecodeJSONBodyUsesJSONFieldNames(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"quantity":0}`))
	var body addItemBody
	err := DecodeJSONBody(req, &body)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "is required", details["productId"])
	assert.Equal(t, "must be at least 1", details["quantity"])
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=5&bad=x&big=500", nil)

	v, err := ParseQueryInt(req, "limit", 20, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 5, v)

	v, err = ParseQueryInt(req, "missing", 20, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 20, v)

	_, err = ParseQueryInt(req, "bad", 20, 1, 100)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = ParseQueryInt(req, "big", 20, 1, 100)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestParseQueryBoolAndList(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?refresh=1&off=nope&v=a,b&v=c&v=", nil)
	assert.True(t, ParseQueryBool(req, "refresh"))
	assert.False(t, ParseQueryBool(req, "off"))
	assert.False(t, ParseQueryBool(req, "missing"))
	assert.Equal(t, []string{"a", "b", "c"}, ParseQueryList(req, "v"))
	assert.Nil(t, ParseQueryList(req, "missing"))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "tote", SanitizeString("  tote  ", 0))
	assert.Equal(t, "tot", SanitizeString("tote", 3))
	assert.Equal(t, "sacs à main", SanitizeString("sacs à main\x00\n", 0))
	assert.Equal(t, "éé", SanitizeString("ééé", 2))
}
