package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// StreamMessage is one entry read back from a stream.
type StreamMessage struct {
	Stream string
	ID     string
	Values map[string]interface{}
}

// DefaultStreamMaxLen caps streams written by PublishJSONToStream (approximate trim).
const DefaultStreamMaxLen = 100000

// PublishToStream appends values to stream, stringifying scalars and JSON-encoding everything else.
func PublishToStream(ctx context.Context, client *redis.Client, stream string, values map[string]interface{}) (string, error) {
	streamValues := make(map[string]interface{}, len(values))
	for k, v := range values {
		s, err := stringifyStreamValue(v)
		if err != nil {
			return "", fmt.Errorf("encode stream field %q: %w", k, err)
		}
		streamValues[k] = s
	}

	return client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: DefaultStreamMaxLen,
		Approx: true,
		Values: streamValues,
	}).Result()
}

// PublishJSONToStream publishes data as a single JSON "data" field plus a unix "timestamp".
func PublishJSONToStream(ctx context.Context, client *redis.Client, stream string, data interface{}) (string, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return "", err
	}

	return PublishToStream(ctx, client, stream, map[string]interface{}{
		"data":      string(jsonBytes),
		"timestamp": time.Now().Unix(),
	})
}

// ReadRange returns up to count entries from the start of stream. Used by tooling and tests.
func ReadRange(ctx context.Context, client *redis.Client, stream string, count int64) ([]StreamMessage, error) {
	msgs, err := client.XRangeN(ctx, stream, "-", "+", count).Result()
	if err != nil {
		if err == redis.Nil {
			return []StreamMessage{}, nil
		}
		return nil, err
	}
	out := make([]StreamMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, StreamMessage{Stream: stream, ID: m.ID, Values: m.Values})
	}
	return out, nil
}

func stringifyStreamValue(v interface{}) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case []byte:
		return string(val), nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(val), nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
