package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Young4Rare/kbase/internal/errs"
	"github.com/Young4Rare/kbase/internal/model"
	"github.com/Young4Rare/kbase/internal/share"
)

var shareExpiry string

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Manage share links",
}

var shareCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a share link",
	RunE:  runShareCreate,
}

var shareListCmd = &cobra.Command{
	Use:   "list",
	Short: "List share links, including expired ones",
	RunE:  runShareList,
}

var shareCheckCmd = &cobra.Command{
	Use:   "check <token>",
	Short: "Check whether a share token is still valid",
	Args:  cobra.ExactArgs(1),
	RunE:  runShareCheck,
}

var subscribeCmd = &cobra.Command{
	Use:   "subscribe [category]",
	Short: "Toggle a category subscription, or list subscriptions",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSubscribe,
}

func init() {
	shareCreateCmd.Flags().StringVar(&shareExpiry, "expires", "24h", "Link lifetime: 24h, 7d or never")
}

func runShareCreate(cmd *cobra.Command, args []string) error {
	var ttl time.Duration
	switch shareExpiry {
	case "24h":
		ttl = share.ExpiryDay
	case "7d":
		ttl = share.ExpiryWeek
	case "never":
		ttl = 0
	default:
		return fmt.Errorf("unknown expiry %q, want 24h, 7d or never", shareExpiry)
	}
	link, err := application.Share.Create(cmd.Context(), ttl)
	if err != nil {
		return err
	}
	fmt.Printf("Share token: %s\n", link.ID)
	if link.ExpiryDate != nil {
		fmt.Printf("Expires:     %s\n", link.ExpiryDate.Format(model.TimestampLayout))
	} else {
		fmt.Println("Expires:     never")
	}
	return nil
}

func runShareList(cmd *cobra.Command, args []string) error {
	links := application.Share.List()
	if len(links) == 0 {
		fmt.Println("No share links.")
		return nil
	}
	now := time.Now()
	for _, l := range links {
		state := "valid"
		expiry := "never"
		if l.ExpiryDate != nil {
			expiry = l.ExpiryDate.Format(model.TimestampLayout)
			if l.Expired(now) {
				state = "expired"
			}
		}
		fmt.Printf("%s  %-7s expires %s\n", l.ID, state, expiry)
	}
	return nil
}

func runShareCheck(cmd *cobra.Command, args []string) error {
	err := application.CheckAccess(cmd.Context(), args[0])
	if errors.Is(err, errs.ErrExpired) {
		fmt.Println("Token expired.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Println("Token valid.")
	return nil
}

func runSubscribe(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		subscribed := application.Subs.All()
		if len(subscribed) == 0 {
			fmt.Println("No subscriptions.")
			return nil
		}
		for category, on := range subscribed {
			if on {
				fmt.Println(category)
			}
		}
		return nil
	}
	on, err := application.Subs.Toggle(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if on {
		fmt.Printf("Subscribed to %q.\n", args[0])
	} else {
		fmt.Printf("Unsubscribed from %q.\n", args[0])
	}
	return nil
}
