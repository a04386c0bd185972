package leadsonline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/pawnshop_backend/models"
	"github.com/shopspring/decimal"
)

func testIntake(dob time.Time) *models.Intake {
	return &models.Intake{
		ID:     7,
		Status: models.IntakeStatusCompleted,
		Customer: &models.Customer{
			FirstName:    "Jane",
			LastName:     "Doe",
			Phone:        "555-0100",
			IdType:       models.IdTypeDriverLicense,
			IdNumber:     "D1234567",
			AddressLine1: "123 Main St",
			City:         "Springfield",
			State:        "IL",
			PostalCode:   "62701",
			Dob:          &dob,
		},
		Items: []*models.Item{
			{
				Brand:         "Acme",
				Model:         "X100",
				Category:      "Electronics",
				SerialNumber:  "SN-42",
				PurchasePrice: decimal.NewFromInt(250),
			},
		},
	}
}

func testClient(url string) *leadsClient {
	return &leadsClient{
		url:      url,
		storeId:  "123",
		username: "clerk",
		password: "secret",
		http:     &http.Client{Timeout: 5 * time.Second},
	}
}

func TestBuildEnvelopeJaneDoe(t *testing.T) {
	dob := time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)

	raw, err := buildEnvelope(context.Background(), testClient(""), testIntake(dob), "42", now)
	if err != nil {
		t.Fatalf("buildEnvelope: %v", err)
	}
	envelope := string(raw)

	if !strings.HasPrefix(envelope, "<?xml") {
		t.Fatalf("envelope missing xml header: %q", envelope[:20])
	}
	for _, want := range []string{
		`xmlns="http://www.leadsonline.com/"`,
		"<storeId>123</storeId>",
		"<userName>clerk</userName>",
		"<password>secret</password>",
		"<ticketType>Buy</ticketType>",
		"<ticketnumber>42</ticketnumber>",
		"<ticketDateTime>2026-03-01T10:30:00</ticketDateTime>",
		"<name>Jane Doe</name>",
		"<address1>123 Main St</address1>",
		"<postalCode>62701</postalCode>",
		"<idType>DL</idType>",
		"<idNumber>D1234567</idNumber>",
		"<dob>1990-05-20</dob>",
		"<make>Acme</make>",
		"<model>X100</model>",
		"<amount>250.00</amount>",
		"<itemType>Other</itemType>",
		"<itemStatus>Buy</itemStatus>",
		"<Name>SERIAL_NUMBER</Name>",
		"<Value>SN-42</Value>",
	} {
		if !strings.Contains(envelope, want) {
			t.Fatalf("envelope missing %q:\n%s", want, envelope)
		}
	}

	// zero physicals stay off the wire
	if strings.Contains(envelope, "<weight>") || strings.Contains(envelope, "<height>") {
		t.Fatalf("expected empty physicals to be omitted:\n%s", envelope)
	}
}

func TestBuildEnvelopeDefaultsAndIdTypeMapping(t *testing.T) {
	dob := time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)

	intake := testIntake(dob)
	intake.Customer.IdType = models.IdTypePassport
	intake.Items[0].Brand = ""
	intake.Items[0].Description = ""
	intake.Items[0].SerialNumber = ""

	raw, err := buildEnvelope(context.Background(), testClient(""), intake, "7", now)
	if err != nil {
		t.Fatalf("buildEnvelope: %v", err)
	}
	envelope := string(raw)

	if !strings.Contains(envelope, "<idType>OT</idType>") {
		t.Fatalf("expected non driver-license ids to map to OT:\n%s", envelope)
	}
	if !strings.Contains(envelope, "<make>Unknown</make>") {
		t.Fatalf("expected empty brand to default to Unknown:\n%s", envelope)
	}
	if !strings.Contains(envelope, "<description>Electronics</description>") {
		t.Fatalf("expected description to fall back to category:\n%s", envelope)
	}
	if strings.Contains(envelope, "SERIAL_NUMBER") {
		t.Fatalf("expected no extraItem without a serial number:\n%s", envelope)
	}
}

func TestBuildEnvelopeSkipsUnfetchableImages(t *testing.T) {
	imageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "missing") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("img"))
	}))
	defer imageServer.Close()

	dob := time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)

	intake := testIntake(dob)
	intake.Items[0].Images = []*models.ItemImage{
		{StoragePath: imageServer.URL + "/photos/good.jpg"},
		{StoragePath: imageServer.URL + "/photos/missing.jpg"},
	}

	raw, err := buildEnvelope(context.Background(), testClient(""), intake, "7", now)
	if err != nil {
		t.Fatalf("buildEnvelope: %v", err)
	}
	envelope := string(raw)

	// base64("img")
	if got := strings.Count(envelope, "<imageData>aW1n</imageData>"); got != 1 {
		t.Fatalf("expected exactly one fetched image; got %d:\n%s", got, envelope)
	}
}

func TestParseErrorCode(t *testing.T) {
	success := `<?xml version="1.0"?><soap:Envelope><soap:Body><SubmitTransactionResponse><SubmitTransactionResult><errorCode>0</errorCode></SubmitTransactionResult></SubmitTransactionResponse></soap:Body></soap:Envelope>`
	code, found := parseErrorCode([]byte(success))
	if !found || code != "0" {
		t.Fatalf("expected code 0; got %q found=%v", code, found)
	}

	rejected := `<response><errorCode>100</errorCode><errorMessage>invalid store</errorMessage></response>`
	code, found = parseErrorCode([]byte(rejected))
	if !found || code != "100" {
		t.Fatalf("expected code 100; got %q found=%v", code, found)
	}

	if _, found := parseErrorCode([]byte(`<response><status>ok</status></response>`)); found {
		t.Fatalf("expected no errorCode element to be found")
	}
}

func TestPostSetsSoapHeaders(t *testing.T) {
	var gotContentType, gotAction string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotAction = r.Header.Get("SOAPAction")
		_, _ = w.Write([]byte("<response><errorCode>0</errorCode></response>"))
	}))
	defer server.Close()

	body, err := testClient(server.URL).post(context.Background(), []byte("<envelope/>"))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if gotContentType != "text/xml; charset=utf-8" {
		t.Fatalf("unexpected content type %q", gotContentType)
	}
	if gotAction != "http://www.leadsonline.com/SubmitTransaction" {
		t.Fatalf("unexpected SOAPAction %q", gotAction)
	}
	if !strings.Contains(string(body), "<errorCode>0</errorCode>") {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestPostWrapsHTTPFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := testClient(server.URL).post(context.Background(), []byte("<envelope/>"))
	if err == nil || !strings.Contains(err.Error(), "status 500") {
		t.Fatalf("expected transport error with status; got %v", err)
	}
}

func TestNewLeadsClientConfigMissing(t *testing.T) {
	t.Setenv("LEADSONLINE_URL", "")
	t.Setenv("LEADSONLINE_STORE_ID", "")
	t.Setenv("LEADSONLINE_USERNAME", "")
	t.Setenv("LEADSONLINE_PASSWORD", "")

	if _, err := newLeadsClient(); err != ErrConfigMissing {
		t.Fatalf("expected ErrConfigMissing; got %v", err)
	}

	t.Setenv("LEADSONLINE_URL", "https://reporting.example.com/soap")
	t.Setenv("LEADSONLINE_STORE_ID", "123")
	t.Setenv("LEADSONLINE_USERNAME", "clerk")
	t.Setenv("LEADSONLINE_PASSWORD", "secret")

	client, err := newLeadsClient()
	if err != nil {
		t.Fatalf("newLeadsClient: %v", err)
	}
	if client.url != "https://reporting.example.com/soap" || client.storeId != "123" {
		t.Fatalf("unexpected client config %+v", client)
	}
}

func TestFetchImageBase64(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("img"))
	}))
	defer server.Close()

	got := fetchImageBase64(context.Background(), http.DefaultClient, server.URL+"/a.jpg")
	if got != "aW1n" {
		t.Fatalf("expected base64 of fetched bytes; got %q", got)
	}

	server.Close()
	if got := fetchImageBase64(context.Background(), http.DefaultClient, server.URL+"/a.jpg"); got != "" {
		t.Fatalf("expected empty string on fetch failure; got %q", got)
	}
}
