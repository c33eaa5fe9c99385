package cart

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maryaskin70/pharma-shop/internal/domain"
)

func line(id string, price float64, qty int) domain.CartLine {
	return domain.CartLine{
		ItemID:    id,
		Name:      "Item " + id,
		UnitPrice: price,
		Quantity:  qty,
	}
}

func TestAdd_NewLine(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.Add(line("p1", 12.50, 2)))

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 25.00, s.Subtotal())
}

func TestAdd_MergesByItemID(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.Add(line("p1", 12.50, 2)))
	require.NoError(t, s.Add(line("p1", 12.50, 3)))

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, 62.50, s.Subtotal())
}

func TestAdd_InvalidQuantity(t *testing.T) {
	s := NewStore()

	assert.ErrorIs(t, s.Add(line("p1", 12.50, 0)), ErrInvalidQuantity)
	assert.ErrorIs(t, s.Add(line("p1", 12.50, -1)), ErrInvalidQuantity)
	assert.Empty(t, s.Lines())
}

func TestAdd_PreservesInsertionOrder(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.Add(line("p1", 1, 1)))
	require.NoError(t, s.Add(line("p2", 2, 1)))
	require.NoError(t, s.Add(line("p3", 3, 1)))
	require.NoError(t, s.Add(line("p2", 2, 1))) // merge keeps position

	lines := s.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, "p1", lines[0].ItemID)
	assert.Equal(t, "p2", lines[1].ItemID)
	assert.Equal(t, "p3", lines[2].ItemID)
	assert.Equal(t, 2, lines[1].Quantity)
}

func TestAdd_NotifiesObservers(t *testing.T) {
	s := NewStore()
	var messages []string
	s.Subscribe(func(msg string) { messages = append(messages, msg) })

	require.NoError(t, s.Add(line("p1", 1, 1)))
	require.NoError(t, s.Add(line("p1", 1, 1)))

	require.Len(t, messages, 2)
	assert.Equal(t, "Item p1 added to cart", messages[0])
	assert.Equal(t, "Updated Item p1 quantity in cart", messages[1])
}

func TestRemove_DeletesLine(t *testing.T) {
	s := NewStore()
	var messages []string
	s.Subscribe(func(msg string) { messages = append(messages, msg) })

	require.NoError(t, s.Add(line("p1", 1, 1)))
	s.Remove("p1")

	assert.Empty(t, s.Lines())
	require.Len(t, messages, 2)
	assert.Equal(t, "Item p1 removed from cart", messages[1])
}

func TestRemove_AbsentItemIsNoOp(t *testing.T) {
	s := NewStore()
	var messages []string
	s.Subscribe(func(msg string) { messages = append(messages, msg) })

	s.Remove("nonexistent")

	assert.Empty(t, s.Lines())
	assert.Empty(t, messages)
}

func TestSetQuantity_Overwrites(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.Add(line("p1", 2.00, 5)))
	s.SetQuantity("p1", 2)

	assert.Equal(t, 2, s.Quantity("p1"))
	assert.Equal(t, 4.00, s.Subtotal())
}

func TestSetQuantity_ZeroEquivalentToRemove(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.Add(line("p1", 1, 3)))
	s.SetQuantity("p1", 0)
	assert.Empty(t, s.Lines())

	require.NoError(t, s.Add(line("p2", 1, 3)))
	s.Remove("p2")
	assert.Empty(t, s.Lines())
}

func TestSetQuantity_AbsentItemIsNoOp(t *testing.T) {
	s := NewStore()

	s.SetQuantity("nonexistent", 5)
	assert.Empty(t, s.Lines())
}

func TestClear(t *testing.T) {
	s := NewStore()
	var messages []string
	s.Subscribe(func(msg string) { messages = append(messages, msg) })

	require.NoError(t, s.Add(line("p1", 1, 1)))
	require.NoError(t, s.Add(line("p2", 1, 1)))
	s.Clear()

	assert.Empty(t, s.Lines())
	assert.Equal(t, 0.0, s.Subtotal())
	assert.Equal(t, "Cart cleared", messages[len(messages)-1])
}

func TestItemCount_SumsQuantities(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.Add(line("p1", 1, 2)))
	require.NoError(t, s.Add(line("p2", 1, 3)))

	assert.Equal(t, 5, s.ItemCount())
	assert.Len(t, s.Lines(), 2)
}

func TestSubtotal_UsesPriceCapturedAtAdd(t *testing.T) {
	s := NewStore()

	l := line("p1", 10.00, 1)
	require.NoError(t, s.Add(l))

	// Mutating the caller's copy must not affect the stored line.
	l.UnitPrice = 99.00
	assert.Equal(t, 10.00, s.Subtotal())
}

func TestConcurrentAdds_NoLostUpdates(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("p%d", i%5)
			_ = s.Add(domain.CartLine{ItemID: id, Name: id, UnitPrice: 1, Quantity: 1})
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.Lines(), 5)
	assert.Equal(t, 50, s.ItemCount())
	for _, l := range s.Lines() {
		assert.Equal(t, 10, l.Quantity)
	}
}
