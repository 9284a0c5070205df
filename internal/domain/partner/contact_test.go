package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContact(t *testing.T) {
	t.Run("creates active contact", func(t *testing.T) {
		contact, err := NewContact(uuid.New(), "Maria Souza", ContactTypeClient)
		require.NoError(t, err)

		assert.True(t, contact.Active)
		assert.Equal(t, ContactTypeClient, contact.Type)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewContact(uuid.New(), "", ContactTypeClient)
		assert.Error(t, err)
	})

	t.Run("rejects invalid type", func(t *testing.T) {
		_, err := NewContact(uuid.New(), "Maria", "FRIEND")
		assert.Error(t, err)
	})
}

func TestContactUpdate(t *testing.T) {
	contact, err := NewContact(uuid.New(), "Maria Souza", ContactTypeClient)
	require.NoError(t, err)

	require.NoError(t, contact.Update("Maria S. Lima", ContactTypeEmployee, "123.456.789-00", "maria@example.com", "", true))

	assert.Equal(t, "Maria S. Lima", contact.Name)
	assert.Equal(t, ContactTypeEmployee, contact.Type)
	assert.True(t, contact.IsDeliveryPerson)
}

func TestContactChildren(t *testing.T) {
	contact, err := NewContact(uuid.New(), "Maria Souza", ContactTypeClient)
	require.NoError(t, err)

	t.Run("replace phones skips blanks", func(t *testing.T) {
		contact.ReplacePhones([]string{"11 99999-0001", "", "11 99999-0002"})

		require.Len(t, contact.Phones, 2)
		assert.NotEqual(t, uuid.Nil, contact.Phones[0].ID)
	})

	t.Run("replace addresses assigns IDs", func(t *testing.T) {
		contact.ReplaceAddresses([]ContactAddress{
			{Address: "Rua das Flores", Number: "120", City: "São Paulo", State: "SP", ZipCode: "01000-000"},
		})

		require.Len(t, contact.Addresses, 1)
		assert.NotEqual(t, uuid.Nil, contact.Addresses[0].ID)
	})
}

func TestContactSoftDelete(t *testing.T) {
	contact, err := NewContact(uuid.New(), "Maria Souza", ContactTypeClient)
	require.NoError(t, err)

	contact.Deactivate()
	assert.False(t, contact.Active)

	contact.Activate()
	assert.True(t, contact.Active)
}
