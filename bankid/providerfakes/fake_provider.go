package providerfakes

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/fiberdirekt/bankid-auth/bankid"
)

var _ bankid.Provider = (*FakeProvider)(nil)

// FakeProvider is an in-memory stand-in for the BankID RP API. Orders start
// pending; tests drive them to complete or failed via SetStatus.
type FakeProvider struct {
	lock        sync.Mutex
	orders      map[string]*bankid.CollectResult
	nextOrder   int
	InitiateErr error
	CollectErr  error
	CancelErr   error
	Cancelled   []string
}

func NewFakeProvider() *FakeProvider {
	return &FakeProvider{
		orders: make(map[string]*bankid.CollectResult),
	}
}

func (p *FakeProvider) Initiate(_ context.Context, personalNumber, _ string) (*bankid.InitiateResult, error) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.InitiateErr != nil {
		return nil, p.InitiateErr
	}

	p.nextOrder++
	orderRef := fmt.Sprintf("ORD-%d", p.nextOrder)
	p.orders[orderRef] = &bankid.CollectResult{
		Status:   bankid.OrderPending,
		HintCode: "outstandingTransaction",
		User:     &bankid.UserInfo{PersonalNumber: personalNumber},
	}
	return &bankid.InitiateResult{
		OrderRef:       orderRef,
		AutoStartToken: "autostart-" + orderRef,
	}, nil
}

func (p *FakeProvider) Collect(_ context.Context, orderRef string) (*bankid.CollectResult, error) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.CollectErr != nil {
		return nil, p.CollectErr
	}

	order, ok := p.orders[orderRef]
	if !ok {
		return nil, errors.Wrapf(bankid.ErrProviderFailure, "unknown order %q", orderRef)
	}

	result := *order
	if result.Status != bankid.OrderComplete {
		result.User = nil
	}
	return &result, nil
}

func (p *FakeProvider) Cancel(_ context.Context, orderRef string) error {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.Cancelled = append(p.Cancelled, orderRef)
	if p.CancelErr != nil {
		return p.CancelErr
	}
	delete(p.orders, orderRef)
	return nil
}

// SetStatus moves an order to the given status and hint.
func (p *FakeProvider) SetStatus(orderRef string, status bankid.OrderStatus, hintCode string) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if order, ok := p.orders[orderRef]; ok {
		order.Status = status
		order.HintCode = hintCode
	}
}
