package cache

import (
	"testing"
	"time"

	"github.com/banking/customer-service/internal/domain/customer"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCachedPersonal() *customer.PersonalCustomer {
	c := &customer.PersonalCustomer{
		BaseCustomer: customer.BaseCustomer{
			DocumentType:   customer.DocumentTypeDNI,
			DocumentNumber: "12345678",
			Email:          "juan@x.com",
			PhoneNumber:    "+51 999 888 777",
		},
		FirstName:   "Juan",
		LastName:    "Perez",
		DateOfBirth: time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC),
	}
	c.InitializeDefaults()
	c.ID = uuid.New()
	return c
}

func newCachedBusiness() *customer.BusinessCustomer {
	c := &customer.BusinessCustomer{
		BaseCustomer: customer.BaseCustomer{
			DocumentNumber: "20123456789",
			Email:          "contacto@acme.pe",
		},
		BusinessName: "Acme SAC",
		BusinessType: customer.BusinessTypeSAC,
		TaxID:        "20123456789",
		AuthorizedSigners: []customer.AuthorizedSigner{{
			FirstName:      "Ana",
			LastName:       "Diaz",
			DocumentType:   customer.DocumentTypeDNI,
			DocumentNumber: "87654321",
			Role:           customer.SignerRoleTitular,
		}},
	}
	c.InitializeDefaults()
	c.ID = uuid.New()
	return c
}

func TestKeysOf(t *testing.T) {
	c := newCachedPersonal()

	keys := keysOf(c)

	assert.Equal(t, []string{
		"customer:id:" + c.ID.String(),
		"customer:email:juan@x.com",
		"customer:document:12345678",
	}, keys)
}

func TestSnapshotCodec(t *testing.T) {
	t.Run("round trips a personal customer", func(t *testing.T) {
		in := newCachedPersonal()

		data, err := encodeSnapshot(in)
		require.NoError(t, err)
		out, err := decodeSnapshot(data)
		require.NoError(t, err)

		p, ok := out.(*customer.PersonalCustomer)
		require.True(t, ok, "expected *PersonalCustomer, got %T", out)
		assert.Equal(t, in.ID, p.ID)
		assert.Equal(t, "Juan", p.FirstName)
		assert.True(t, in.DateOfBirth.Equal(p.DateOfBirth))
		assert.Equal(t, customer.PersonalProfileStandard, p.PersonalProfile)
	})

	t.Run("round trips a business customer with signers", func(t *testing.T) {
		in := newCachedBusiness()

		data, err := encodeSnapshot(in)
		require.NoError(t, err)
		out, err := decodeSnapshot(data)
		require.NoError(t, err)

		b, ok := out.(*customer.BusinessCustomer)
		require.True(t, ok, "expected *BusinessCustomer, got %T", out)
		assert.Equal(t, "Acme SAC", b.BusinessName)
		require.Len(t, b.AuthorizedSigners, 1)
		assert.Equal(t, "87654321", b.AuthorizedSigners[0].DocumentNumber)
	})

	t.Run("rejects an unknown discriminator", func(t *testing.T) {
		_, err := decodeSnapshot([]byte(`{"customer_type":"GOVERNMENT"}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown customer type")
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		_, err := decodeSnapshot([]byte(`{not json`))
		require.Error(t, err)
	})
}
