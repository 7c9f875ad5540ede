package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Lixing-Zhang/mint-kitchen/internal/cart"
	"github.com/Lixing-Zhang/mint-kitchen/internal/checkout"
	"github.com/Lixing-Zhang/mint-kitchen/internal/payment"
	"github.com/Lixing-Zhang/mint-kitchen/internal/storefront"
)

const cardMount = "card-container"

var errCheckoutFailed = errors.New("checkout failed")

// order is one --item flag: an item id and how many to add.
type order struct {
	itemID   string
	quantity int
}

// parseOrder reads "id=qty" or a bare "id" meaning one unit.
func parseOrder(s string) (order, error) {
	id, qty, found := strings.Cut(s, "=")
	id = strings.TrimSpace(id)
	if id == "" {
		return order{}, fmt.Errorf("invalid item %q: missing id", s)
	}
	if !found {
		return order{itemID: id, quantity: 1}, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(qty))
	if err != nil || n < 1 {
		return order{}, fmt.Errorf("invalid item %q: quantity must be a positive number", s)
	}
	return order{itemID: id, quantity: n}, nil
}

func checkoutCmd(a *app) *cobra.Command {
	var (
		items      []string
		cardNumber string
	)

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Order dishes and pay with a sandbox card",
		Long: `Build a cart from the menu and pay for it.

Examples:
  storefront checkout --item ghee-dosa=2 --item chicken-biryani
  storefront checkout --item masala-dosa --card 4000000000000002`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			orders := make([]order, 0, len(items))
			for _, raw := range items {
				o, err := parseOrder(raw)
				if err != nil {
					return err
				}
				orders = append(orders, o)
			}

			view := storefront.NewMenuView(a.api, nil, a.log)
			if view.Load(ctx) != storefront.Loaded {
				return fmt.Errorf("menu unavailable: %w", view.Err())
			}

			store := cart.NewStore()
			for _, o := range orders {
				item, ok := view.Find(o.itemID)
				if !ok {
					return fmt.Errorf("no dish %q on the menu", o.itemID)
				}
				if err := store.AddItem(item, o.quantity); err != nil {
					return fmt.Errorf("add %s: %w", o.itemID, err)
				}
			}

			if err := storefront.RenderCart(out, store.Snapshot()); err != nil {
				return err
			}

			orch := checkout.New(store, a.api, a.log)
			unsubscribe := orch.Subscribe(func(st checkout.State) {
				if st.Status == checkout.Processing {
					_ = storefront.RenderCheckout(out, st, store.Snapshot())
				}
			})
			defer unsubscribe()

			provider := payment.NewSandboxProvider(cardNumber)
			widgetCfg := payment.Config{
				ApplicationID: a.cfg.ApplicationID,
				LocationID:    a.cfg.LocationID,
			}

			err := payment.WithWidget(ctx, provider, widgetCfg, cardMount, a.log, func(w *payment.Widget) error {
				_, err := orch.Submit(ctx, w)
				return err
			})
			var cfgErr *payment.ConfigError
			if errors.As(err, &cfgErr) {
				orch.Fail(cfgErr)
			}

			st := orch.State()
			if err := storefront.RenderCheckout(out, st, store.Snapshot()); err != nil {
				return err
			}
			if st.Status != checkout.Success {
				return errCheckoutFailed
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&items, "item", "i", nil, "dish to order as id or id=quantity (repeatable)")
	cmd.Flags().StringVar(&cardNumber, "card", payment.SandboxCardOK, "sandbox card number")
	_ = cmd.MarkFlagRequired("item")

	return cmd
}
