package greptime

import (
	"context"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// DefaultSchemaName is the database written to when the caller does not name
// one. The server resolves the name the same way its MySQL, Postgres and
// HTTP frontends do.
const DefaultSchemaName = "public"

// Database issues writes against one named database through a shared Client.
// The header (database name plus credential) is attached identically to
// every request it sends.
type Database struct {
	dbname string
	client *Client
	auth   *gpb.AuthHeader

	streamBufferSize int
}

// NewDatabase binds a database name to a client. An empty name selects
// DefaultSchemaName.
func NewDatabase(dbname string, client *Client) *Database {
	if dbname == "" {
		dbname = DefaultSchemaName
	}
	return &Database{
		dbname:           dbname,
		client:           client,
		streamBufferSize: DefaultStreamBufferSize,
	}
}

func (d *Database) Name() string { return d.dbname }

// SetBasicAuth attaches a username/password credential to every request.
func (d *Database) SetBasicAuth(username, password string) {
	d.auth = &gpb.AuthHeader{
		AuthScheme: &gpb.AuthHeader_Basic{
			Basic: &gpb.Basic{Username: username, Password: password},
		},
	}
}

// SetTokenAuth attaches a token credential to every request.
func (d *Database) SetTokenAuth(token string) {
	d.auth = &gpb.AuthHeader{
		AuthScheme: &gpb.AuthHeader_Token{
			Token: &gpb.Token{Token: token},
		},
	}
}

// SetStreamBufferSize changes the queue capacity used by StreamInserter.
func (d *Database) SetStreamBufferSize(n int) {
	if n > 0 {
		d.streamBufferSize = n
	}
}

func (d *Database) header() *gpb.RequestHeader {
	return &gpb.RequestHeader{
		Dbname:        d.dbname,
		Authorization: d.auth,
	}
}

// Insert writes column-oriented batches and returns the affected row count.
func (d *Database) Insert(ctx context.Context, requests []*gpb.InsertRequest) (uint32, error) {
	return d.handle(ctx, &gpb.GreptimeRequest{
		Header:  d.header(),
		Request: &gpb.GreptimeRequest_Inserts{Inserts: &gpb.InsertRequests{Inserts: requests}},
	})
}

// RowInsert writes row-oriented batches and returns the affected row count.
func (d *Database) RowInsert(ctx context.Context, requests []*gpb.RowInsertRequest) (uint32, error) {
	return d.handle(ctx, &gpb.GreptimeRequest{
		Header:  d.header(),
		Request: &gpb.GreptimeRequest_RowInserts{RowInserts: &gpb.RowInsertRequests{Inserts: requests}},
	})
}

// Delete removes rows matching the given requests and returns the affected
// row count.
func (d *Database) Delete(ctx context.Context, requests []*gpb.DeleteRequest) (uint32, error) {
	return d.handle(ctx, &gpb.GreptimeRequest{
		Header:  d.header(),
		Request: &gpb.GreptimeRequest_Deletes{Deletes: &gpb.DeleteRequests{Deletes: requests}},
	})
}

// handle runs one unary call against a freshly selected peer.
func (d *Database) handle(ctx context.Context, req *gpb.GreptimeRequest) (uint32, error) {
	client, err := d.client.databaseClient()
	if err != nil {
		return 0, err
	}
	var trailer metadata.MD
	resp, err := client.Handle(ctx, req, grpc.Trailer(&trailer))
	if err != nil {
		return 0, fromRPCError(err, trailer)
	}
	return affectedRows(resp)
}

// affectedRows unpacks the single legal response variant. Anything else,
// including an absent payload, is a protocol violation; it is never coerced
// to a zero count.
func affectedRows(resp *gpb.GreptimeResponse) (uint32, error) {
	if resp == nil || resp.GetResponse() == nil {
		return 0, newError(KindProtocol, "response carries no payload")
	}
	rows := resp.GetAffectedRows()
	if rows == nil {
		return 0, errorf(KindProtocol, "unexpected response variant %T", resp.GetResponse())
	}
	return rows.GetValue(), nil
}

// StreamInserter opens one streaming session against a freshly selected
// peer, with the configured queue capacity.
func (d *Database) StreamInserter() (*StreamInserter, error) {
	return d.StreamInserterWithCapacity(d.streamBufferSize)
}

// StreamInserterWithCapacity opens a session with an explicit queue
// capacity.
func (d *Database) StreamInserterWithCapacity(capacity int) (*StreamInserter, error) {
	if capacity <= 0 {
		return nil, errorf(KindConfiguration, "stream buffer capacity must be positive, got %d", capacity)
	}
	client, err := d.client.databaseClient()
	if err != nil {
		return nil, err
	}
	open := func() (insertStream, error) {
		return client.HandleRequests(context.Background())
	}
	return newStreamInserter(open, d.header(), capacity), nil
}
