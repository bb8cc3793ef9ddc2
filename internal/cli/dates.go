package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"serotonyl.ru/kogda-bot/internal/common"
	"serotonyl.ru/kogda-bot/internal/features/admin"
	"serotonyl.ru/kogda-bot/internal/humanize"
	"serotonyl.ru/kogda-bot/internal/instant"
)

func (c *Cli) smartAction(ctx context.Context, cmd *cli.Command) error {
	input := strings.Join(cmd.Args().Slice(), " ")
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("no date provided")
	}

	subject, err := c.dates.Parse(input, nil)
	if err != nil {
		return err
	}

	punctuality, err := humanize.ParseUnits(cmd.String("punctuality"))
	if err != nil {
		return err
	}

	to := cmd.String("to")
	if to == "" && punctuality == 0 && !cmd.Bool("with-date") {
		fmt.Fprintln(c.out, c.dates.Formatter().Smart(subject))
		return nil
	}

	r, err := c.describe(subject, to, punctuality)
	if err != nil {
		return err
	}
	if cmd.Bool("with-date") {
		fmt.Fprintln(c.out, r.TextWithDate())
		return nil
	}
	fmt.Fprintln(c.out, r.Text)
	return nil
}

// describe сравнивает subject с to или, если to пусто, с текущим временем.
func (c *Cli) describe(subject *instant.Instant, to string, punctuality humanize.Unit) (humanize.Result, error) {
	var ref *instant.Instant
	if to != "" {
		var err error
		if ref, err = c.dates.Parse(to, nil); err != nil {
			return humanize.Result{}, err
		}
	}
	return c.dates.Formatter().Describe(subject, ref, punctuality), nil
}

func (c *Cli) rangeAction(ctx context.Context, cmd *cli.Command) error {
	from, to := cmd.StringArg("from"), cmd.StringArg("to")
	if from == "" || to == "" {
		return fmt.Errorf("two dates required")
	}

	mask, err := humanize.ParseUnits(cmd.String("mask"))
	if err != nil {
		return err
	}

	a, err := c.dates.Parse(from, nil)
	if err != nil {
		return err
	}
	b, err := c.dates.Parse(to, nil)
	if err != nil {
		return err
	}

	keepYear := cmd.Bool("keep-year")
	fmt.Fprintln(c.out, c.dates.Formatter().Range(a, b, mask, !keepYear, cmd.String("glue")))
	return nil
}

func (c *Cli) diffAction(ctx context.Context, cmd *cli.Command) error {
	a, b := cmd.StringArg("a"), cmd.StringArg("b")
	if a == "" || b == "" {
		return fmt.Errorf("two dates required")
	}

	text, err := c.dates.Difference(a+" | "+b, nil)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, text)
	return nil
}

func (c *Cli) pluralAction(ctx context.Context, cmd *cli.Command) error {
	count := cmd.StringArg("count")
	if count == "" {
		return fmt.Errorf("no count provided")
	}

	// Пустая форма допустима («час», «часа», «часов» при основе «час»), но только одна.
	// Пустой позиционный аргумент теряется при разборе, поэтому такие формы идут через --forms.
	forms := []string{cmd.StringArg("one"), cmd.StringArg("few"), cmd.StringArg("many")}
	if raw := cmd.String("forms"); raw != "" {
		if forms = strings.Split(raw, ","); len(forms) != 3 {
			return fmt.Errorf("--forms: expected three comma-separated forms, got %d", len(forms))
		}
	}
	empty := 0
	for _, f := range forms {
		if f == "" {
			empty++
		}
	}
	if empty > 1 {
		return fmt.Errorf("expected three forms: <одна> <две> <пять>")
	}

	text, err := common.Pluralize(count, forms, !cmd.Bool("no-number"), cmd.String("stem"))
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, text)
	return nil
}

func (c *Cli) nowAction(ctx context.Context, cmd *cli.Command) error {
	now := c.dates.Formatter().Now()
	fmt.Fprintln(c.out, now.Format())
	return nil
}

func (c *Cli) hashAction(ctx context.Context, cmd *cli.Command) error {
	hash, err := admin.HashPassword(cmd.StringArg("password"))
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, hash)
	return nil
}
