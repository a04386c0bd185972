package leadsonline

import (
	"context"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/pawnshop_backend/utils"
)

const (
	namespace  = "http://www.leadsonline.com/"
	soapAction = "http://www.leadsonline.com/SubmitTransaction"
)

var (
	ErrConfigMissing = errors.New("leadsonline configuration missing")
	ErrTransport     = errors.New("leadsonline transport failure")
)

type leadsClient struct {
	url      string
	storeId  string
	username string
	password string
	http     *http.Client
}

func newLeadsClient() (*leadsClient, error) {
	url := strings.TrimSpace(os.Getenv("LEADSONLINE_URL"))
	storeId := strings.TrimSpace(os.Getenv("LEADSONLINE_STORE_ID"))
	username := strings.TrimSpace(os.Getenv("LEADSONLINE_USERNAME"))
	password := strings.TrimSpace(os.Getenv("LEADSONLINE_PASSWORD"))
	if url == "" || storeId == "" || username == "" || password == "" {
		return nil, ErrConfigMissing
	}
	return &leadsClient{
		url:      url,
		storeId:  storeId,
		username: username,
		password: password,
		http:     &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// post ships one envelope and returns the raw response body. Network and HTTP
// level failures are wrapped as ErrTransport; business rejections are
// reported by the caller after parsing.
func (c *leadsClient) post(ctx context.Context, envelope []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(string(envelope)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", soapAction)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrTransport, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

// parseErrorCode walks the response XML for the errorCode element. The legacy
// contract treats errorCode 0 as success.
func parseErrorCode(body []byte) (string, bool) {
	decoder := xml.NewDecoder(strings.NewReader(string(body)))
	for {
		tok, err := decoder.Token()
		if err != nil {
			return "", false
		}
		if start, ok := tok.(xml.StartElement); ok && start.Name.Local == "errorCode" {
			var code string
			if err := decoder.DecodeElement(&code, &start); err != nil {
				return "", false
			}
			return strings.TrimSpace(code), true
		}
	}
}

// fetchImageBase64 resolves a stored photo path to a public URL and returns
// its content base64 encoded. Returns "" on any failure: a photo that cannot
// be fetched is omitted from the submission rather than aborting it.
func fetchImageBase64(ctx context.Context, httpClient *http.Client, storagePath string) string {
	url := storagePath
	if !strings.HasPrefix(url, "http") {
		url = utils.BuildObjectAccessURL(storagePath)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ""
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(data)
}
