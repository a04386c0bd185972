package leadsonline

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"bitbucket.org/mmdatafocus/pawnshop_backend/config"
	"bitbucket.org/mmdatafocus/pawnshop_backend/models"
)

var ErrMissingComplianceFields = errors.New("customer is missing required compliance fields")

type SubmitResult struct {
	TicketNumber string `json:"ticket_number"`
	Raw          string `json:"raw"`
}

// Submit reports a completed intake to the regulatory service. Preconditions
// are checked in order: aggregate loads, intake completed, compliance fields
// present, credentials configured. Nothing goes over the wire until all pass.
func Submit(ctx context.Context, intakeId int) (*SubmitResult, error) {
	logger := config.GetLogger()

	intake, err := models.GetIntake(ctx, intakeId)
	if err != nil {
		return nil, err
	}
	if intake.Status != models.IntakeStatusCompleted {
		return nil, models.ErrIntakeNotReady
	}
	if intake.Customer == nil || !intake.Customer.HasComplianceFields() {
		return nil, ErrMissingComplianceFields
	}

	client, err := newLeadsClient()
	if err != nil {
		return nil, err
	}

	ticketNumber := fmt.Sprint(rand.Intn(100000))
	envelope, err := buildEnvelope(ctx, client, intake, ticketNumber, time.Now())
	if err != nil {
		return nil, err
	}

	body, err := client.post(ctx, envelope)
	if err != nil {
		config.LogError(logger, "submit.go", "Submit", "transport", intakeId, err)
		return nil, err
	}

	code, found := parseErrorCode(body)
	if !found || code != "0" {
		err := fmt.Errorf("leadsonline business error: %s", string(body))
		config.LogError(logger, "submit.go", "Submit", "business rejection", intakeId, err)
		return nil, err
	}

	if err := models.MarkIntakeReported(ctx, intakeId, ticketNumber); err != nil {
		// submission went through; losing the marker only costs the UI its
		// re-submission hint
		config.LogError(logger, "submit.go", "Submit", "mark reported", intakeId, err)
	}

	return &SubmitResult{TicketNumber: ticketNumber, Raw: string(body)}, nil
}

func buildEnvelope(ctx context.Context, client *leadsClient, intake *models.Intake, ticketNumber string, now time.Time) ([]byte, error) {
	customer := intake.Customer

	cust := ticketCustomer{
		Name:       customer.FirstName + " " + customer.LastName,
		Address1:   customer.AddressLine1,
		City:       customer.City,
		State:      customer.State,
		PostalCode: customer.PostalCode,
		Phone:      customer.Phone,
		IdType:     mapIdType(customer.IdType),
		IdNumber:   customer.IdNumber,
		Dob:        customer.Dob.Format("2006-01-02"),
		EyeColor:   customer.EyeColor,
		HairColor:  customer.HairColor,
		Race:       customer.Race,
		Sex:        customer.Gender,
	}
	if customer.WeightLb > 0 {
		cust.Weight = fmt.Sprint(customer.WeightLb)
	}
	if customer.HeightIn > 0 {
		cust.Height = fmt.Sprint(customer.HeightIn)
	}

	var items []ticketItem
	for _, item := range intake.Items {
		ti := ticketItem{
			Make:        defaultString(item.Brand, "Unknown"),
			Model:       defaultString(item.Model, "Unknown"),
			Description: defaultString(item.Description, defaultString(item.Category, "Item")),
			Amount:      item.PurchasePrice.StringFixed(2),
			ItemType:    "Other",
			ItemStatus:  "Buy",
			IsVoid:      false,
			Employee:    "Employee",
		}
		if item.SerialNumber != "" {
			ti.ExtraItem = &extraItem{
				PropertyValue: propertyValue{Name: "SERIAL_NUMBER", Value: item.SerialNumber},
			}
		}
		for _, img := range item.Images {
			base64Data := fetchImageBase64(ctx, imageHTTPClient(client), img.StoragePath)
			if base64Data == "" {
				continue
			}
			ti.Images.Images = append(ti.Images.Images, imageElement{
				ImageCategory: "Item",
				ImageType:     "Jpeg",
				ImageData:     base64Data,
			})
		}
		items = append(items, ti)
	}

	envelope := soapEnvelope{
		XsiNs:  "http://www.w3.org/2001/XMLSchema-instance",
		XsdNs:  "http://www.w3.org/2001/XMLSchema",
		SoapNs: "http://schemas.xmlsoap.org/soap/envelope/",
		Body: soapBody{
			SubmitTransaction: submitTransaction{
				Xmlns: namespace,
				Login: login{
					StoreId:  client.storeId,
					UserName: client.username,
					Password: client.password,
				},
				Ticket: ticket{
					Key: ticketKey{
						TicketType:     "Buy",
						TicketNumber:   ticketNumber,
						TicketDateTime: now.Format("2006-01-02T15:04:05"),
					},
					Customer: cust,
					Items:    ticketItems{Items: items},
					IsVoid:   false,
				},
			},
		},
	}

	raw, err := xml.Marshal(envelope)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), raw...), nil
}

func imageHTTPClient(client *leadsClient) *http.Client {
	if client != nil && client.http != nil {
		return client.http
	}
	return http.DefaultClient
}

// mapIdType reduces our ID type enum to the reporting service's code set.
func mapIdType(t models.IdType) string {
	if t == models.IdTypeDriverLicense {
		return "DL"
	}
	return "OT"
}

func defaultString(v string, def string) string {
	if v == "" {
		return def
	}
	return v
}
