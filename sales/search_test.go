package sales

import (
	"context"
	"testing"
	"time"

	"github.com/cruisedesk/sales-service/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDebounce = 20 * time.Millisecond

func TestSearchRejectsEmptyQuery(t *testing.T) {
	svc := &stubCustomers{}
	cs := NewCustomerSearcher(svc, testDebounce, 20)

	res := <-cs.Search(context.Background(), "sess-1", "co-1", "   ")
	assert.ErrorIs(t, res.Err, ErrEmptyQuery)
	assert.Empty(t, svc.recorded())
}

func TestSearchDeliversAfterSettle(t *testing.T) {
	svc := &stubCustomers{results: []model.Customer{
		{ID: "cust-1", FirstName: "Ada", LastName: "Rossi"},
	}}
	cs := NewCustomerSearcher(svc, testDebounce, 20)

	res := <-cs.Search(context.Background(), "sess-1", "co-1", "ros")
	require.NoError(t, res.Err)
	assert.Equal(t, "ros", res.Query)
	require.Len(t, res.Customers, 1)
	assert.Equal(t, "cust-1", res.Customers[0].ID)
	assert.Equal(t, []string{"ros"}, svc.recorded())
}

func TestSearchCoalescesRapidKeystrokes(t *testing.T) {
	svc := &stubCustomers{results: []model.Customer{{ID: "cust-1"}}}
	cs := NewCustomerSearcher(svc, testDebounce, 20)

	// Keystrokes faster than the settle window. Only the last query may
	// reach the backend.
	ch1 := cs.Search(context.Background(), "sess-1", "co-1", "r")
	ch2 := cs.Search(context.Background(), "sess-1", "co-1", "ro")
	ch3 := cs.Search(context.Background(), "sess-1", "co-1", "ros")

	res1 := <-ch1
	res2 := <-ch2
	assert.ErrorIs(t, res1.Err, ErrSearchSuperseded)
	assert.ErrorIs(t, res2.Err, ErrSearchSuperseded)

	res3 := <-ch3
	require.NoError(t, res3.Err)
	assert.Equal(t, "ros", res3.Query)
	assert.Equal(t, []string{"ros"}, svc.recorded())
}

func TestSearchDiscardsLateResponseOfSupersededQuery(t *testing.T) {
	svc := &stubCustomers{
		results: []model.Customer{{ID: "cust-1"}},
		delay:   5 * testDebounce,
	}
	cs := NewCustomerSearcher(svc, testDebounce, 20)

	ch1 := cs.Search(context.Background(), "sess-1", "co-1", "ros")

	// Let the first query settle and start its slow backend call before the
	// next keystroke arrives.
	time.Sleep(2 * testDebounce)
	ch2 := cs.Search(context.Background(), "sess-1", "co-1", "rossi")

	res1 := <-ch1
	assert.ErrorIs(t, res1.Err, ErrSearchSuperseded)
	assert.Nil(t, res1.Customers)

	res2 := <-ch2
	require.NoError(t, res2.Err)
	assert.Equal(t, "rossi", res2.Query)
}

func TestSearchSessionsAreIndependent(t *testing.T) {
	svc := &stubCustomers{results: []model.Customer{{ID: "cust-1"}}}
	cs := NewCustomerSearcher(svc, testDebounce, 20)

	chA := cs.Search(context.Background(), "sess-a", "co-1", "anna")
	chB := cs.Search(context.Background(), "sess-b", "co-1", "bruno")

	resA := <-chA
	resB := <-chB
	assert.NoError(t, resA.Err)
	assert.NoError(t, resB.Err)
	assert.ElementsMatch(t, []string{"anna", "bruno"}, svc.recorded())
}

func TestForgetReleasesPendingSearch(t *testing.T) {
	svc := &stubCustomers{delay: 5 * testDebounce}
	cs := NewCustomerSearcher(svc, testDebounce, 20)

	ch := cs.Search(context.Background(), "sess-1", "co-1", "ros")
	time.Sleep(2 * testDebounce)
	cs.Forget("sess-1")

	res := <-ch
	assert.ErrorIs(t, res.Err, ErrSearchSuperseded)
}
