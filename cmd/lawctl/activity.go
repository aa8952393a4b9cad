package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"lawfirm-cms/internal/audit"
	"lawfirm-cms/internal/resource"
)

const activityPath = "audit"

func runActivity(args []string) error {
	fs := flag.NewFlagSet("activity", flag.ContinueOnError)
	res := fs.String("resource", "", "Only events for this resource (or \"user\" for logins)")
	action := fs.String("action", "", "Only this action: create, update, delete, login or signup")
	since := fs.Duration("since", 0, "Only events newer than this, e.g. 24h")
	limit := fs.Int("limit", 20, "Maximum number of events")
	asJSON := fs.Bool("json", false, "Print raw JSON")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: lawctl activity [options]\n\nShow the activity log, newest first.\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	query := url.Values{}
	if *res != "" {
		query.Set("resource", *res)
	}
	if *action != "" {
		query.Set("action", *action)
	}
	if *since > 0 {
		query.Set("since", time.Now().Add(-*since).UTC().Format(time.RFC3339))
	}
	if *limit > 0 {
		query.Set("limit", strconv.Itoa(*limit))
	}

	sess, err := newSession()
	if err != nil {
		return err
	}
	var events []audit.Event
	call := resource.Call{Method: http.MethodGet, Path: activityPath, Access: resource.AccessRequired, Query: query}
	if _, err := sess.client.Do(context.Background(), call, &events, false); err != nil {
		return err
	}

	if *asJSON {
		return printJSON(events)
	}
	if len(events) == 0 {
		fmt.Fprintln(stdout, "No activity")
		return nil
	}
	for _, e := range events {
		line := fmt.Sprintf("%s  %-7s %-8s %-12s %s", e.CreatedAt.Local().Format(time.DateTime), e.Status, e.Action, e.Resource, e.EntityID)
		if e.ErrorMessage != "" {
			line += "  (" + e.ErrorMessage + ")"
		}
		fmt.Fprintln(stdout, line)
	}
	return nil
}
