//
// collaborator contract for speech-to-text. the assessment core
// never inspects audio itself; it hands the recording to a
// Transcriber and works with the returned text. implementations
// are constructed explicitly and injected into the service, never
// held as hidden global state.
//
package transcribe

import (
	"bytes"
	"context"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/kanishk-pant/orf-english/internal/util"
)

//
// Transcriber converts a recording on disk into a lowercase
// transcript string. a returned error is fatal for the single
// assessment; callers do not retry here.
//
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

//
// Client calls an external speech inference server (wav2vec2 or
// compatible) over http.
//
type Client struct {
	// full url of the transcription endpoint
	url string
	// bearer token for the inference server, may be empty
	token string
}

func NewClient(url, token string) *Client {
	return &Client{url: url, token: token}
}

// String identifies the inference endpoint; the token is elided.
func (c *Client) String() string {
	return c.url
}

//
// Transcribe posts the recording to the inference server and
// extracts the transcript from its json response. servers in the
// wild answer with either {"text": ...} or {"transcript": ...},
// so both are accepted.
//
func (c *Client) Transcribe(ctx context.Context, audioPath string) (string, error) {

	samples, err := os.ReadFile(audioPath)
	if err != nil {
		return "", errors.Wrap(err, "cannot read recording for transcription")
	}

	headers := map[string]string{
		"Content-Type": "audio/wav",
		"Accept":       "application/json",
	}
	if c.token != "" {
		headers["Authorization"] = "Bearer " + c.token
	}

	res, err := util.Fetch(ctx, "POST", c.url, headers, bytes.NewReader(samples))
	if err != nil {
		return "", errors.Wrap(err, "transcription service call failed")
	}

	text := gjson.GetBytes(res, "text")
	if !text.Exists() {
		text = gjson.GetBytes(res, "transcript")
	}
	if !text.Exists() {
		return "", errors.New("transcription service response carried no transcript")
	}

	return strings.ToLower(strings.TrimSpace(text.String())), nil
}
