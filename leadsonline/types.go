package leadsonline

import "encoding/xml"

// Wire types for the SubmitTransaction SOAP operation. Element names and
// nesting follow the reporting service's schema exactly.

type soapEnvelope struct {
	XMLName xml.Name `xml:"soap:Envelope"`
	XsiNs   string   `xml:"xmlns:xsi,attr"`
	XsdNs   string   `xml:"xmlns:xsd,attr"`
	SoapNs  string   `xml:"xmlns:soap,attr"`
	Body    soapBody `xml:"soap:Body"`
}

type soapBody struct {
	SubmitTransaction submitTransaction
}

type submitTransaction struct {
	XMLName xml.Name `xml:"SubmitTransaction"`
	Xmlns   string   `xml:"xmlns,attr"`
	Login   login    `xml:"login"`
	Ticket  ticket   `xml:"ticket"`
}

type login struct {
	StoreId  string `xml:"storeId"`
	UserName string `xml:"userName"`
	Password string `xml:"password"`
}

type ticket struct {
	Key          ticketKey      `xml:"key"`
	RedeemByDate string         `xml:"redeemByDate"`
	Customer     ticketCustomer `xml:"customer"`
	Items        ticketItems    `xml:"items"`
	IsVoid       bool           `xml:"isVoid"`
}

type ticketKey struct {
	TicketType     string `xml:"ticketType"`
	TicketNumber   string `xml:"ticketnumber"`
	TicketDateTime string `xml:"ticketDateTime"`
}

type ticketCustomer struct {
	Name       string `xml:"name"`
	Address1   string `xml:"address1"`
	City       string `xml:"city"`
	State      string `xml:"state"`
	PostalCode string `xml:"postalCode"`
	Phone      string `xml:"phone"`
	IdType     string `xml:"idType"`
	IdNumber   string `xml:"idNumber"`
	Dob        string `xml:"dob"`
	Weight     string `xml:"weight,omitempty"`
	Height     string `xml:"height,omitempty"`
	EyeColor   string `xml:"eyeColor,omitempty"`
	HairColor  string `xml:"hairColor,omitempty"`
	Race       string `xml:"race,omitempty"`
	Sex        string `xml:"sex,omitempty"`
}

type ticketItems struct {
	Items []ticketItem `xml:"Item"`
}

type ticketItem struct {
	Make        string      `xml:"make"`
	Model       string      `xml:"model"`
	Description string      `xml:"description"`
	Amount      string      `xml:"amount"`
	ItemType    string      `xml:"itemType"`
	ItemStatus  string      `xml:"itemStatus"`
	IsVoid      bool        `xml:"isVoid"`
	Employee    string      `xml:"employee"`
	ExtraItem   *extraItem  `xml:"extraItem,omitempty"`
	Images      ticketImage `xml:"images"`
}

type extraItem struct {
	PropertyValue propertyValue `xml:"PropertyValue"`
}

type propertyValue struct {
	Name  string `xml:"Name"`
	Value string `xml:"Value"`
}

type ticketImage struct {
	Images []imageElement `xml:"Image"`
}

type imageElement struct {
	ImageCategory string `xml:"ImageCategory,attr"`
	ImageType     string `xml:"ImageType,attr"`
	ImageData     string `xml:"imageData"`
}
