package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"sort"
	"strings"

	"lawfirm-cms/internal/admin"
	"lawfirm-cms/internal/domain"
	"lawfirm-cms/internal/domain/schema"
	"lawfirm-cms/internal/formfield"
	"lawfirm-cms/internal/resource"
	apperrors "lawfirm-cms/pkg/errors"
)

const (
	errUnknownResourceFmt = "unknown resource %q (run lawctl resources)"
	errAssignmentFmt      = "invalid field %q: expected name=value"
	errUnknownFieldFmt    = "%s has no field %q"
	errReadOnlyFmt        = "%s is read-only from the admin side"
	errObjectFieldFmt     = "field %q must be valid JSON"
)

var (
	errResourceRequired = errors.New("resource name is required")
	errIDRequired       = errors.New("entity id is required")
	errNoChanges        = errors.New("nothing to update: pass name=value fields or --image")
)

func resourceFlags(name, args, help string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	image := new(string)
	if name == "create" || name == "update" {
		image = fs.String("image", "", "Path of an image to upload with the entity")
	}
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: lawctl %s %s\n\n%s\n", name, args, help)
		if name == "create" || name == "update" {
			fmt.Fprintln(fs.Output(), "\nOptions:")
			fs.PrintDefaults()
		}
	}
	return fs, image
}

func lookup(name string) (schema.Schema, error) {
	if name == "" {
		return schema.Schema{}, errResourceRequired
	}
	s, ok := domain.Lookup(name)
	if !ok {
		return schema.Schema{}, fmt.Errorf(errUnknownResourceFmt, name)
	}
	return s, nil
}

func documents(s schema.Schema) (*resource.Resource[resource.Document], error) {
	sess, err := newSession()
	if err != nil {
		return nil, err
	}
	return resource.NewResource[resource.Document](sess.client, s.Binding), nil
}

func runResources(args []string) error {
	for _, s := range domain.Schemas() {
		var notes []string
		if s.Binding.ReadAccess == resource.AccessRequired {
			notes = append(notes, "login to read")
		}
		if s.PublicCreate {
			notes = append(notes, "public create")
		}
		if s.ReadOnly {
			notes = append(notes, "read-only")
		}
		if s.ImageField != "" {
			notes = append(notes, "image")
		}
		fmt.Fprintf(stdout, "%-12s %s\n", s.Path(), strings.Join(notes, ", "))
	}
	return nil
}

func runList(args []string) error {
	fs, _ := resourceFlags("list", "<resource>", "List every entity of a resource.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := lookup(fs.Arg(0))
	if err != nil {
		return err
	}
	docs, err := documents(s)
	if err != nil {
		return err
	}
	items, err := docs.List(context.Background())
	if err != nil {
		return err
	}
	return printJSON(items)
}

func runGet(args []string) error {
	fs, _ := resourceFlags("get", "<resource> <id>", "Show one entity.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := lookup(fs.Arg(0))
	if err != nil {
		return err
	}
	if fs.Arg(1) == "" {
		return errIDRequired
	}
	docs, err := documents(s)
	if err != nil {
		return err
	}
	item, err := docs.Get(context.Background(), fs.Arg(1))
	if err != nil {
		return err
	}
	return printJSON(item)
}

func runCreate(args []string) error {
	fs, image := resourceFlags("create", "[--image <path>] <resource> name=value...",
		"Create an entity. List fields take comma separated text; object fields take JSON.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := lookup(fs.Arg(0))
	if err != nil {
		return err
	}
	if s.ReadOnly {
		return fmt.Errorf(errReadOnlyFmt, s.Path())
	}
	fields, err := parseAssignments(s, fs.Args()[1:])
	if err != nil {
		return err
	}
	file, err := loadImage(*image)
	if err != nil {
		return err
	}

	docs, err := documents(s)
	if err != nil {
		return err
	}
	created, err := docs.Create(context.Background(), fields, file)
	if err != nil {
		return err
	}
	return printJSON(created)
}

func runUpdate(args []string) error {
	fs, image := resourceFlags("update", "[--image <path>] <resource> <id> name=value...",
		"Update an entity. Fields not named keep their stored values.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := lookup(fs.Arg(0))
	if err != nil {
		return err
	}
	if s.ReadOnly {
		return fmt.Errorf(errReadOnlyFmt, s.Path())
	}
	id := fs.Arg(1)
	if id == "" {
		return errIDRequired
	}
	var assignments []string
	if fs.NArg() > 2 {
		assignments = fs.Args()[2:]
	}
	fields, err := parseAssignments(s, assignments)
	if err != nil {
		return err
	}
	file, err := loadImage(*image)
	if err != nil {
		return err
	}
	if len(fields) == 0 && file == nil {
		return errNoChanges
	}

	docs, err := documents(s)
	if err != nil {
		return err
	}
	updated, err := docs.Update(context.Background(), id, fields, file)
	if err != nil {
		return err
	}
	return printJSON(updated)
}

func runDelete(args []string) error {
	fs, _ := resourceFlags("delete", "<resource> <id>", "Delete an entity and its image.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := lookup(fs.Arg(0))
	if err != nil {
		return err
	}
	if fs.Arg(1) == "" {
		return errIDRequired
	}
	docs, err := documents(s)
	if err != nil {
		return err
	}
	if err := docs.Remove(context.Background(), fs.Arg(1)); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s %s deleted\n", s.Path(), fs.Arg(1))
	return nil
}

func runDashboard(args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: lawctl dashboard\n\nShow how many entities each resource holds.")
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	sess, err := newSession()
	if err != nil {
		return err
	}
	panel := admin.NewPanel(sess.client, sess.log)
	defer panel.Close()

	for _, tile := range panel.Dashboard(context.Background()) {
		if tile.Err != nil {
			fmt.Fprintf(stdout, "%-12s error: %s\n", tile.Name, describe(tile.Err))
			continue
		}
		fmt.Fprintf(stdout, "%-12s %d\n", tile.Name, tile.Count)
	}
	return nil
}

// parseAssignments turns name=value arguments into request fields, shaping
// list and object fields the way the backend expects.
func parseAssignments(s schema.Schema, args []string) (resource.Fields, error) {
	var fields resource.Fields
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf(errAssignmentFmt, arg)
		}
		if !s.Known(name) {
			return nil, fmt.Errorf(errUnknownFieldFmt, s.Path(), name)
		}

		switch {
		case contains(s.Lists, name):
			fields = fields.Set(name, formfield.Split(value))
		case contains(s.Objects, name):
			if !json.Valid([]byte(value)) {
				return nil, fmt.Errorf(errObjectFieldFmt, name)
			}
			fields = fields.Set(name, json.RawMessage(value))
		default:
			fields = fields.Set(name, value)
		}
	}
	return fields, nil
}

func loadImage(path string) (*resource.Upload, error) {
	if path == "" {
		return nil, nil
	}
	return resource.UploadFromFile(path)
}

func contains(list []string, name string) bool {
	for _, item := range list {
		if item == name {
			return true
		}
	}
	return false
}

func printJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// describe renders err with the backend's field messages, if any.
func describe(err error) string {
	fieldErrs := apperrors.FieldErrors(err)
	if len(fieldErrs) == 0 {
		if apperrors.KindOf(err) == apperrors.KindPrecondition || apperrors.KindOf(err) == apperrors.KindAuth {
			return err.Error() + " (run lawctl login)"
		}
		return err.Error()
	}

	names := make([]string, 0, len(fieldErrs))
	for name := range fieldErrs {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(err.Error())
	for _, name := range names {
		fmt.Fprintf(&b, "\n  %s: %s", name, fieldErrs[name])
	}
	return b.String()
}
