package events

import (
	"context"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"
)

const registryURL = "http://schema-registry:8081"

func newTestRegistry(t *testing.T) *SchemaRegistryClient {
	t.Helper()
	c := NewSchemaRegistryClient(registryURL, time.Second)
	httpmock.ActivateNonDefault(c.httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)
	return c
}

func TestSchemaIDResolvesAndCaches(t *testing.T) {
	c := newTestRegistry(t)

	httpmock.RegisterResponder("GET", registryURL+"/subjects/activity.segment-efforts-value/versions/latest",
		httpmock.NewStringResponder(200, `{"id": 42, "version": 1}`))

	ctx := context.Background()
	id, err := c.SchemaID(ctx, "activity.segment-efforts-value", segmentEffortsInvalidatedSchema)
	require.NoError(t, err)
	require.Equal(t, 42, id)

	id, err = c.SchemaID(ctx, "activity.segment-efforts-value", segmentEffortsInvalidatedSchema)
	require.NoError(t, err)
	require.Equal(t, 42, id)

	require.Equal(t, 1, httpmock.GetTotalCallCount(), "id must be resolved over HTTP once per subject")
}

func TestSchemaIDRegistersUnknownSubject(t *testing.T) {
	c := newTestRegistry(t)

	httpmock.RegisterResponder("GET", registryURL+"/subjects/activity.segment-efforts-value/versions/latest",
		httpmock.NewStringResponder(404, `{"error_code": 40401, "message": "Subject not found"}`))
	httpmock.RegisterResponder("POST", registryURL+"/subjects/activity.segment-efforts-value/versions",
		httpmock.NewStringResponder(200, `{"id": 7}`))

	id, err := c.SchemaID(context.Background(), "activity.segment-efforts-value", segmentEffortsInvalidatedSchema)
	require.NoError(t, err)
	require.Equal(t, 7, id)
}

func TestSchemaIDRegistryError(t *testing.T) {
	c := newTestRegistry(t)

	httpmock.RegisterResponder("GET", registryURL+"/subjects/activity.segment-efforts-value/versions/latest",
		httpmock.NewStringResponder(500, `oops`))
	httpmock.RegisterResponder("POST", registryURL+"/subjects/activity.segment-efforts-value/versions",
		httpmock.NewStringResponder(500, `oops`))

	_, err := c.SchemaID(context.Background(), "activity.segment-efforts-value", segmentEffortsInvalidatedSchema)
	require.Error(t, err)
	require.ErrorContains(t, err, "schema registry register error")
}
