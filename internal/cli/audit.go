package cli

import (
	"context"
	"fmt"
	"log"
	"strconv"
)

const defaultLogLimit = 20

// Logs prints the most recent audit entries, newest first. The optional
// argument overrides how many entries are shown.
func (a *App) Logs(ctx context.Context, args []string) error {
	limit := defaultLogLimit
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			fmt.Println("Usage: logs [count]")
			return nil
		}
		limit = n
	}

	entries, err := a.service.RecentAuditLog(ctx, limit)
	if err != nil {
		log.Printf("Reading audit log failed: %s", err.Error())
		return err
	}
	for _, e := range entries {
		outcome := "FAIL"
		if e.Success {
			outcome = "ok"
		}
		origin := ""
		if e.IPAddress != "" {
			origin = " from " + e.IPAddress
		}
		fmt.Printf("%s  %-16s %-16s %-4s%s\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"), e.Username, e.Action, outcome, origin)
	}
	return nil
}

func (a *App) PurgeSessions(ctx context.Context) error {
	n, err := a.service.PurgeExpiredSessions(ctx)
	if err != nil {
		log.Printf("Purge failed: %s", err.Error())
		return err
	}
	fmt.Printf("Removed %d expired sessions\n", n)
	return nil
}
