package payment

import (
	"context"
	"fmt"
	"math"

	braintree "github.com/braintree-go/braintree-go"
)

// Result is the snapshot of a gateway transaction persisted with an order.
type Result struct {
	TransactionID string
	Status        string
	Amount        float64
}

// Gateway is the payment collaborator; handlers receive it injected so
// tests can swap in a fake.
type Gateway interface {
	ClientToken(ctx context.Context) (string, error)
	Sale(ctx context.Context, amount float64, nonce string) (*Result, error)
}

type Braintree struct {
	bt *braintree.Braintree
}

func NewBraintree(env, merchantID, publicKey, privateKey string) *Braintree {
	environment := braintree.Sandbox
	if env == "production" {
		environment = braintree.Production
	}
	return &Braintree{bt: braintree.New(environment, merchantID, publicKey, privateKey)}
}

func (g *Braintree) ClientToken(ctx context.Context) (string, error) {
	tok, err := g.bt.ClientToken().Generate(ctx)
	if err != nil {
		return "", fmt.Errorf("braintree client token: %w", err)
	}
	return tok, nil
}

func (g *Braintree) Sale(ctx context.Context, amount float64, nonce string) (*Result, error) {
	cents := int64(math.Round(amount * 100))
	tx, err := g.bt.Transaction().Create(ctx, &braintree.TransactionRequest{
		Amount:             braintree.NewDecimal(cents, 2),
		PaymentMethodNonce: nonce,
		Options: &braintree.TransactionOptions{
			SubmitForSettlement: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("braintree sale: %w", err)
	}

	return &Result{
		TransactionID: tx.Id,
		Status:        fmt.Sprint(tx.Status),
		Amount:        amount,
	}, nil
}
