package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/srcom-client/internal/constants"
	"github.com/fivetwenty-io/srcom-client/pkg/srcom"
)

// NewNotificationsCommand creates the notifications command.
func NewNotificationsCommand() *cobra.Command {
	var (
		limit      int
		unreadOnly bool
	)

	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notifs"},
		Short:   "List your notifications",
		Long:    "List the notifications of the user the API key belongs to, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, client srcom.Client) error {
				query := &srcom.NotificationsQuery{
					OrderBy:    srcom.NotificationsOrderByCreated,
					Descending: true,
					Max:        pageSize(limit),
				}

				notifications := make([]*srcom.Notification, 0, max(limit, 0))

				if limit <= 0 {
					return renderNotifications(cmd.OutOrStdout(), notifications)
				}

				for notification, err := range client.Notifications().List(query).Items(ctx) {
					if err != nil {
						return fmt.Errorf("failed to list notifications: %w", err)
					}

					if unreadOnly && notification.IsRead() {
						continue
					}

					notifications = append(notifications, notification)
					if len(notifications) >= limit {
						break
					}
				}

				return renderNotifications(cmd.OutOrStdout(), notifications)
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", constants.DefaultPageSize, "maximum number of notifications")
	cmd.Flags().BoolVar(&unreadOnly, "unread", false, "only unread notifications")

	return cmd
}

func renderNotifications(out io.Writer, notifications []*srcom.Notification) error {
	return render(out, notifications, func(out io.Writer) error {
		rows := make([][]string, 0, len(notifications))
		for _, notification := range notifications {
			rows = append(rows, []string{
				formatDate(notification.Created),
				string(notification.Status),
				string(notification.Type),
				notification.Text,
			})
		}

		return renderRows(out, "No notifications", []string{"Created", "Status", "Type", "Text"}, rows)
	})
}
