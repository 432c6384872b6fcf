// Package payment is the stand-in for a real payment gateway. The shop
// collects a contact email, waits out a fixed processing delay and treats
// the charge as captured; a declined-card path does not exist here.
package payment

import (
	"context"
	"time"
)

type Gateway interface {
	Charge(ctx context.Context, amount float64, email string) error
}

type SimulatedGateway struct {
	Delay time.Duration
}

func (g *SimulatedGateway) Charge(ctx context.Context, amount float64, email string) error {
	select {
	case <-time.After(g.Delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
