package admin

import (
	"encoding/json"
	"testing"

	"github.com/Niwatda/softwareshop/utils/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRequestRequiresPrice(t *testing.T) {
	// A payload that omits price must fail validation instead of
	// silently updating the product to price 0
	var req ProductRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Starter","description":"entry plan"}`), &req))
	require.Nil(t, req.Price)

	err := reqValidator.ValidateStruct(req)
	require.Error(t, err)
	assert.Contains(t, validation.FormatValidationErrors(err), "price")
}

func TestProductRequestAllowsExplicitZeroPrice(t *testing.T) {
	var req ProductRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Starter","description":"entry plan","price":0}`), &req))
	require.NotNil(t, req.Price)

	assert.NoError(t, reqValidator.ValidateStruct(req))
}

func TestProductRequestRejectsNegativePrice(t *testing.T) {
	price := int64(-1)
	req := ProductRequest{Name: "Starter", Description: "entry plan", Price: &price}

	err := reqValidator.ValidateStruct(req)
	require.Error(t, err)
	assert.Contains(t, validation.FormatValidationErrors(err), "price")
}

func TestProductRequestRequiresNameAndDescription(t *testing.T) {
	price := int64(149000)
	err := reqValidator.ValidateStruct(ProductRequest{Price: &price})
	require.Error(t, err)

	fields := validation.FormatValidationErrors(err)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "description")
}
