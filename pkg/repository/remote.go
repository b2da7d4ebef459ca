package repository

import (
	"bytes"
	"compress/zlib"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

// remotePayload is the wire shape a record is translated to before
// shipping: sample_id, name, process_id, thread_id, timestamp, stack_info,
// execution_time.
type remotePayload struct {
	SampleID      string  `json:"sample_id"`
	Name          string  `json:"name"`
	ProcessID     int     `json:"process_id"`
	ThreadID      int     `json:"thread_id"`
	Timestamp     float64 `json:"timestamp"`
	StackInfo     string  `json:"stack_info"`
	ExecutionTime int64   `json:"execution_time"`
}

// RemoteRepository ships records to an HTTP collector as a zlib-deflated
// JSON body, matching the wire format of the reference client/transport
// pair this is grounded on.
type RemoteRepository struct {
	endpoint RemoteEndpoint
	client   *http.Client
}

// NewRemoteRepository creates a RemoteRepository targeting the already
// validated endpoint.
func NewRemoteRepository(endpoint RemoteEndpoint, client *http.Client) *RemoteRepository {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &RemoteRepository{endpoint: endpoint, client: client}
}

// Store POSTs rec to the endpoint's add URL. Thread identity has no
// portable analogue on the Go runtime's M:N scheduler, so thread_id is
// always sent as 0; process_id is the real OS process id.
func (r *RemoteRepository) Store(rec *Record) error {
	payload := remotePayload{
		SampleID:      hex.EncodeToString(rec.Ident[:]),
		Name:          rec.Name,
		ProcessID:     os.Getpid(),
		ThreadID:      0,
		Timestamp:     float64(time.Now().UnixNano()) / float64(time.Second),
		StackInfo:     rec.FlameOutput,
		ExecutionTime: rec.LifecycleMS,
	}

	body, err := encodePayload(payload)
	if err != nil {
		return fmt.Errorf("encode remote payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, r.endpoint.AddURL(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build remote request: %w", err)
	}
	req.Header.Set("Content-Encoding", "deflate")
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("send remote request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("remote repository rejected record: status %d", resp.StatusCode)
	}
	return nil
}

func encodePayload(payload remotePayload) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(raw); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
