package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// graph is a thin handle for issuing Cypher queries against one named
// FalkorDB graph over the Redis protocol.
type graph struct {
	name string
	conn redis.UniversalClient
}

// queryResult holds a decoded GRAPH.QUERY reply.
type queryResult struct {
	Header     []string
	Rows       [][]interface{}
	Statistics []string
}

// query executes a Cypher query and decodes the reply. Replies carry either
// three sections (header, rows, statistics) or two (rows, statistics) when the
// query returns no records.
func (g *graph) query(ctx context.Context, cypher string) (queryResult, error) {
	var qr queryResult

	res, err := g.conn.Do(ctx, "GRAPH.QUERY", g.name, cypher).Result()
	if err != nil {
		return qr, err
	}

	reply, ok := res.([]interface{})
	if !ok {
		return qr, fmt.Errorf("unexpected reply type %T", res)
	}

	switch len(reply) {
	case 3:
		if header, ok := reply[0].([]interface{}); ok {
			qr.Header = make([]string, len(header))
			for i, h := range header {
				qr.Header[i] = asString(h)
			}
		}
		qr.Rows = decodeRows(reply[1])
		qr.Statistics = decodeStats(reply[2])
	case 2:
		qr.Rows = decodeRows(reply[0])
		qr.Statistics = decodeStats(reply[1])
	default:
		return qr, fmt.Errorf("unexpected reply length %d", len(reply))
	}

	return qr, nil
}

func decodeRows(v interface{}) [][]interface{} {
	rows, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		if vals, ok := row.([]interface{}); ok {
			out[i] = vals
		}
	}
	return out
}

func decodeStats(v interface{}) []string {
	stats, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, len(stats))
	for i, s := range stats {
		out[i] = asString(s)
	}
	return out
}
