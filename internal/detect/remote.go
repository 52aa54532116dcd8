package detect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Remote posts the image to a separately hosted vision service and decodes
// its flat detection JSON. The upstream is typically a YOLO-style model
// server on the same LAN.
type Remote struct {
	url    string
	client *http.Client
	log    *zap.Logger
}

func NewRemote(url string, timeout time.Duration, log *zap.Logger) *Remote {
	return &Remote{
		url:    url,
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

func (d *Remote) Detect(ctx context.Context, image []byte) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(image))
	if err != nil {
		return failure(fmt.Sprintf("build detection request: %v", err))
	}
	req.Header.Set("Content-Type", "image/jpeg")

	resp, err := d.client.Do(req)
	if err != nil {
		d.log.Warn("detection service unreachable", zap.Error(err))
		return failure(fmt.Sprintf("detection service unreachable: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return failure(fmt.Sprintf("detection service returned status %d", resp.StatusCode))
	}

	var res Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return failure(fmt.Sprintf("decode detection response: %v", err))
	}
	return clamp(res)
}
