package cache

import (
	"encoding/json"
	"fmt"

	"github.com/banking/customer-service/internal/domain/customer"
)

// Key prefixes for the three lookup keys of a cached customer
const (
	keyPrefix         = "customer:"
	idKeyPrefix       = keyPrefix + "id:"
	emailKeyPrefix    = keyPrefix + "email:"
	documentKeyPrefix = keyPrefix + "document:"
)

func idKey(id string) string {
	return idKeyPrefix + id
}

func emailKey(email string) string {
	return emailKeyPrefix + email
}

func documentKey(documentNumber string) string {
	return documentKeyPrefix + documentNumber
}

// keysOf returns the id, email and document keys of a snapshot
func keysOf(c customer.Customer) []string {
	b := c.Base()
	return []string{idKey(b.ID.String()), emailKey(b.Email), documentKey(b.DocumentNumber)}
}

// encodeSnapshot serializes a customer together with its discriminator
func encodeSnapshot(c customer.Customer) ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode customer snapshot: %w", err)
	}
	return data, nil
}

// decodeSnapshot restores the concrete variant named by customer_type
func decodeSnapshot(data []byte) (customer.Customer, error) {
	var head struct {
		CustomerType customer.CustomerType `json:"customer_type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("failed to decode customer snapshot: %w", err)
	}

	var c customer.Customer
	switch head.CustomerType {
	case customer.CustomerTypePersonal:
		c = &customer.PersonalCustomer{}
	case customer.CustomerTypeBusiness:
		c = &customer.BusinessCustomer{}
	default:
		return nil, fmt.Errorf("unknown customer type in snapshot: %q", head.CustomerType)
	}

	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to decode %s customer snapshot: %w", head.CustomerType, err)
	}
	return c, nil
}
