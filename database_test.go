package greptime

import (
	"context"
	"testing"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/9triver/greptime-ingest/helpers"
)

func monitorRowRequests(hosts ...string) []*gpb.RowInsertRequest {
	rows := make([]*gpb.Row, 0, len(hosts))
	for i, host := range hosts {
		rows = append(rows, &gpb.Row{Values: []*gpb.Value{
			helpers.TimestampMillisecondValue(1686109527000 + int64(i)),
			helpers.StringValue(host),
			helpers.Float64Value(0.5),
		}})
	}
	return []*gpb.RowInsertRequest{{
		TableName: "monitor",
		Rows: &gpb.Rows{
			Schema: []*gpb.ColumnSchema{
				helpers.Timestamp("ts", gpb.ColumnDataType_TIMESTAMP_MILLISECOND),
				helpers.Tag("host", gpb.ColumnDataType_STRING),
				helpers.Field("cpu", gpb.ColumnDataType_FLOAT64),
			},
			Rows: rows,
		},
	}}
}

func TestDatabaseRowInsert(t *testing.T) {
	svc := &mockDatabaseServer{unaryResp: affectedRowsResponse(2)}
	db := NewDatabase("metrics", startMockServer(t, svc))

	rows, err := db.RowInsert(context.Background(), monitorRowRequests("h1", "h2"))
	require.NoError(t, err)
	require.EqualValues(t, 2, rows)

	reqs := svc.unaryRequests()
	require.Len(t, reqs, 1)
	require.NotNil(t, reqs[0].GetRowInserts())
}

func TestDatabaseDelete(t *testing.T) {
	svc := &mockDatabaseServer{unaryResp: affectedRowsResponse(1)}
	db := NewDatabase("metrics", startMockServer(t, svc))

	rows, err := db.Delete(context.Background(), []*gpb.DeleteRequest{{TableName: "monitor"}})
	require.NoError(t, err)
	require.EqualValues(t, 1, rows)

	reqs := svc.unaryRequests()
	require.Len(t, reqs, 1)
	require.NotNil(t, reqs[0].GetDeletes())
}

func TestDatabaseHeaderRoundTrip(t *testing.T) {
	svc := &mockDatabaseServer{}
	db := NewDatabase("sensor_data", startMockServer(t, svc))
	db.SetBasicAuth("reader", "hunter2")

	_, err := db.RowInsert(context.Background(), monitorRowRequests("h1"))
	require.NoError(t, err)

	reqs := svc.unaryRequests()
	require.Len(t, reqs, 1)
	header := reqs[0].GetHeader()
	require.NotNil(t, header)
	require.Equal(t, "sensor_data", header.GetDbname())
	basic := header.GetAuthorization().GetBasic()
	require.NotNil(t, basic)
	require.Equal(t, "reader", basic.GetUsername())
	require.Equal(t, "hunter2", basic.GetPassword())
}

func TestDatabaseEmptyResponseIsProtocolViolation(t *testing.T) {
	svc := &mockDatabaseServer{unaryResp: &gpb.GreptimeResponse{}}
	db := NewDatabase("metrics", startMockServer(t, svc))

	_, err := db.RowInsert(context.Background(), monitorRowRequests("h1"))
	var ce *Error
	require.ErrorAs(t, err, &ce)
	require.Equal(t, KindProtocol, ce.Kind)
	require.False(t, ce.Retriable())
}

func TestDatabaseServerErrorCarriesDiagnostic(t *testing.T) {
	svc := &mockDatabaseServer{
		unaryErr:     status.Error(codes.Internal, "internal error"),
		unaryTrailer: metadata.Pairs(serverErrorKey, "table `monitor` not found"),
	}
	db := NewDatabase("metrics", startMockServer(t, svc))

	_, err := db.RowInsert(context.Background(), monitorRowRequests("h1"))
	var ce *Error
	require.ErrorAs(t, err, &ce)
	require.Equal(t, KindServer, ce.Kind)
	require.Equal(t, "table `monitor` not found", ce.Msg)
	require.NotNil(t, ce.Status)
	require.Equal(t, codes.Internal, ce.Status.Code())
}

func TestDatabaseDefaultsSchemaName(t *testing.T) {
	db := NewDatabase("", newTestClient(t))
	require.Equal(t, DefaultSchemaName, db.Name())
}

func TestDatabaseStreamInserterRejectsBadCapacity(t *testing.T) {
	db := NewDatabase("metrics", newTestClient(t, "a:1"))

	_, err := db.StreamInserterWithCapacity(0)
	var ce *Error
	require.ErrorAs(t, err, &ce)
	require.Equal(t, KindConfiguration, ce.Kind)
}

func TestDatabaseStreamInserterNoPeer(t *testing.T) {
	db := NewDatabase("metrics", newTestClient(t))

	_, err := db.StreamInserter()
	var ce *Error
	require.ErrorAs(t, err, &ce)
	require.Equal(t, KindNoEndpoint, ce.Kind)
}
