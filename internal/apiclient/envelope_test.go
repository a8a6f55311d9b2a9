package apiclient

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func TestDecodeRecordUnwrapsOptionalEnvelope(t *testing.T) {
	wrapped, err := DecodeRecord[row](json.RawMessage(`{"data":{"id":1,"name":"Çay"}}`))
	require.NoError(t, err)
	assert.Equal(t, row{ID: 1, Name: "Çay"}, wrapped)

	bare, err := DecodeRecord[row](json.RawMessage(`{"id":2,"name":"Kahve"}`))
	require.NoError(t, err)
	assert.Equal(t, row{ID: 2, Name: "Kahve"}, bare)

	_, err = DecodeRecord[row](json.RawMessage(``))
	assert.Error(t, err)
}

func TestDecodeListReadsNestedData(t *testing.T) {
	page, err := DecodeList[row](json.RawMessage(`{"data":{"data":[{"id":1,"name":"a"},{"id":2,"name":"b"}],"total":42,"current_page":2}}`))
	require.NoError(t, err)
	assert.Equal(t, 42, page.Total)
	require.Len(t, page.Data, 2)
	assert.Equal(t, int64(2), page.Data[1].ID)
}

func TestDecodeListAcceptsFlatShape(t *testing.T) {
	page, err := DecodeList[row](json.RawMessage(`{"data":[{"id":9,"name":"x"}],"total":1}`))
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Len(t, page.Data, 1)

	empty, err := DecodeList[row](json.RawMessage(`{"data":{"data":null,"total":0}}`))
	require.NoError(t, err)
	assert.NotNil(t, empty.Data)
	assert.Empty(t, empty.Data)
}

func TestEncodeQueryBracketNotation(t *testing.T) {
	values := EncodeQuery(map[string]any{
		"page":       2,
		"limit":      10,
		"sort_by":    "name",
		"sort_order": "desc",
		"filter": map[string]any{
			"is_active": "1",
			"brands":    []int64{3, 4},
			"missing":   nil,
		},
	})

	assert.Equal(t, "2", values.Get("page"))
	assert.Equal(t, "10", values.Get("limit"))
	assert.Equal(t, "name", values.Get("sort_by"))
	assert.Equal(t, "desc", values.Get("sort_order"))
	assert.Equal(t, "1", values.Get("filter[is_active]"))
	assert.Equal(t, []string{"3", "4"}, values["filter[brands][]"])
	_, hasMissing := values["filter[missing]"]
	assert.False(t, hasMissing)
}
