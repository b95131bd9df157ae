package bacsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baclab/bacsync/bacnet"
)

func build(t *testing.T, spec string, arrayIndex *uint32) (bacnet.ReadRequest, error) {
	t.Helper()
	return buildReadRequest(bacnet.StandardRegistry{}, bacnet.ParseAddress, tokenize(spec), arrayIndex)
}

func buildMultiple(t *testing.T, spec string) (bacnet.ReadMultipleRequest, error) {
	t.Helper()
	return buildReadMultipleRequest(bacnet.StandardRegistry{}, bacnet.ParseAddress, tokenize(spec))
}

func TestBuildReadRequest(t *testing.T) {
	req, err := build(t, "2:5 analogInput 1 presentValue", nil)
	require.NoError(t, err)
	assert.Equal(t, uint16(2), req.Destination.Net)
	assert.Equal(t, []byte{5}, req.Destination.Adr)
	assert.Equal(t, bacnet.AnalogInput, req.Object.Type)
	assert.Equal(t, bacnet.ObjectInstance(1), req.Object.Instance)
	assert.Equal(t, bacnet.PresentValue, req.Property.Type)
	assert.Nil(t, req.Property.ArrayIndex)
}

func TestBuildReadRequestNumericCodes(t *testing.T) {
	//raw type and property codes bypass the registry names
	req, err := build(t, "5 0 1 85", nil)
	require.NoError(t, err)
	assert.Equal(t, bacnet.AnalogInput, req.Object.Type)
	assert.Equal(t, bacnet.PresentValue, req.Property.Type)
}

func TestBuildReadRequestArrayIndex(t *testing.T) {
	idx := uint32(2)
	req, err := build(t, "2:5 device 100 objectList", &idx)
	require.NoError(t, err)
	require.NotNil(t, req.Property.ArrayIndex)
	assert.Equal(t, uint32(2), *req.Property.ArrayIndex)

	//a fifth token takes precedence over the parameter
	req, err = build(t, "2:5 device 100 objectList 7", &idx)
	require.NoError(t, err)
	require.NotNil(t, req.Property.ArrayIndex)
	assert.Equal(t, uint32(7), *req.Property.ArrayIndex)
}

func TestBuildReadRequestErrors(t *testing.T) {
	tests := []struct {
		name string
		spec string
		kind ValidationKind
	}{
		{"too few tokens", "2:5 analogInput 1", Malformed},
		{"too many tokens", "2:5 analogInput 1 presentValue 4 extra", Malformed},
		{"bad address", "nowhere analogInput 1 presentValue", Malformed},
		{"unknown object type", "2:5 analogBogus 1 presentValue", UnknownObjectType},
		{"non numeric instance", "2:5 analogInput one presentValue", Malformed},
		{"unknown property", "2:5 analogInput 1 bogusValue", InvalidProperty},
		{"non numeric index", "2:5 analogInput 1 presentValue x", Malformed},
		{"mismatched property", "2:5 binaryInput 1 units", InvalidProperty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := build(t, tt.spec, nil)
			var verr ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.kind, verr.Kind)
		})
	}
}

func TestBuildReadMultipleRequest(t *testing.T) {
	req, err := buildMultiple(t, "2:5 analogInput 1 presentValue units")
	require.NoError(t, err)
	require.Len(t, req.Specs, 1)
	spec := req.Specs[0]
	assert.Equal(t, bacnet.AnalogInput, spec.Object.Type)
	assert.Equal(t, bacnet.ObjectInstance(1), spec.Object.Instance)
	require.Len(t, spec.Properties, 2)
	assert.Equal(t, bacnet.PresentValue, spec.Properties[0].Type)
	assert.Equal(t, bacnet.Units, spec.Properties[1].Type)
}

func TestBuildReadMultipleRequestSeveralObjects(t *testing.T) {
	//a token that is not a known property ends the property run and
	//starts the next object group
	req, err := buildMultiple(t, "2:5 analogInput 1 presentValue analogValue 2 presentValue units")
	require.NoError(t, err)
	require.Len(t, req.Specs, 2)
	assert.Equal(t, bacnet.AnalogInput, req.Specs[0].Object.Type)
	require.Len(t, req.Specs[0].Properties, 1)
	assert.Equal(t, bacnet.AnalogValue, req.Specs[1].Object.Type)
	assert.Equal(t, bacnet.ObjectInstance(2), req.Specs[1].Object.Instance)
	require.Len(t, req.Specs[1].Properties, 2)
}

func TestBuildReadMultipleRequestArrayIndex(t *testing.T) {
	req, err := buildMultiple(t, "2:5 device 100 objectList 3 objectName")
	require.NoError(t, err)
	require.Len(t, req.Specs, 1)
	props := req.Specs[0].Properties
	require.Len(t, props, 2)
	require.NotNil(t, props[0].ArrayIndex)
	assert.Equal(t, uint32(3), *props[0].ArrayIndex)
	assert.Nil(t, props[1].ArrayIndex)
}

func TestBuildReadMultipleRequestSelectors(t *testing.T) {
	//selectors stand for whole property sets, so they skip the
	//per-property datatype check
	req, err := buildMultiple(t, "2:5 binaryInput 1 all")
	require.NoError(t, err)
	require.Len(t, req.Specs, 1)
	require.Len(t, req.Specs[0].Properties, 1)
	assert.Equal(t, bacnet.All, req.Specs[0].Properties[0].Type)

	_, err = buildMultiple(t, "2:5 device 100 required optional")
	require.NoError(t, err)
}

func TestBuildReadMultipleRequestErrors(t *testing.T) {
	tests := []struct {
		name string
		spec string
		kind ValidationKind
	}{
		{"empty", "", Malformed},
		{"address only", "2:5", EmptySpecList},
		{"no properties", "2:5 analogInput 1", EmptyPropertyList},
		{"no instance", "2:5 analogInput presentValue", Malformed},
		{"unknown object type", "2:5 analogBogus 1 presentValue", UnknownObjectType},
		{"mismatched property", "2:5 binaryInput 1 units", InvalidProperty},
		{"second group no properties", "2:5 analogInput 1 presentValue analogValue 2", EmptyPropertyList},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildMultiple(t, tt.spec)
			var verr ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.kind, verr.Kind)
		})
	}
}
