// Package cli реализует консольную утилиту kogda: те же фразы, что и в боте,
// без Telegram и базы.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"serotonyl.ru/kogda-bot/internal/common"
	"serotonyl.ru/kogda-bot/internal/features/when"
	"serotonyl.ru/kogda-bot/internal/humanize"
	"serotonyl.ru/kogda-bot/internal/instant"
	"serotonyl.ru/kogda-bot/internal/locale"
)

type Cli struct {
	out   io.Writer
	clock instant.Clock
	dates *when.Service
}

// New создаёт утилиту. out == nil: stdout, clock == nil: системные часы.
func New(out io.Writer, clock instant.Clock) *Cli {
	if out == nil {
		out = os.Stdout
	}
	if clock == nil {
		clock = instant.SystemClock
	}
	return &Cli{out: out, clock: clock}
}

func (c *Cli) Run(ctx context.Context, args []string) error {
	cmd := &cli.Command{
		Name:  "kogda",
		Usage: "русские фразы о датах: «вчера», «через 2 недели», «с 10 по 12 января»",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "tz",
				Usage: "часовой пояс",
				Value: "Europe/Moscow",
			},
			&cli.StringFlag{
				Name:  "locale-file",
				Usage: "YAML с переопределениями слов",
			},
			&cli.BoolFlag{
				Name:  "micro",
				Usage: "учитывать микросекунды текущего времени",
			},
			&cli.BoolFlag{
				Name:  "keep-year",
				Usage: "писать текущий год в датах",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			f, err := c.formatter(cmd)
			if err != nil {
				return ctx, err
			}
			c.dates = when.NewService(f)
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:      "smart",
				Usage:     "фраза о дате относительно сейчас или --to",
				ArgsUsage: "<дата>",
				Action:    c.smartAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "to",
						Usage: "с чем сравнивать вместо текущего времени",
					},
					&cli.StringFlag{
						Name:    "punctuality",
						Aliases: []string{"p"},
						Usage:   "единицы после основной: число или список (minutes,seconds)",
					},
					&cli.BoolFlag{
						Name:  "with-date",
						Usage: "добавить дату к фразе",
					},
				},
			},
			{
				Name:   "range",
				Usage:  "диапазон между двумя датами",
				Action: c.rangeAction,
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "from"},
					&cli.StringArg{Name: "to"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "mask",
						Aliases: []string{"m"},
						Usage:   "какие единицы выводить: число или список (days,months,years)",
					},
					&cli.StringFlag{
						Name:  "glue",
						Usage: "разделитель вместо «с … по …»",
					},
				},
			},
			{
				Name:   "diff",
				Usage:  "все разряды разницы двух дат",
				Action: c.diffAction,
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "a"},
					&cli.StringArg{Name: "b"},
				},
			},
			{
				Name:   "plural",
				Usage:  "склонение слова по числу",
				Action: c.pluralAction,
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "count"},
					&cli.StringArg{Name: "one"},
					&cli.StringArg{Name: "few"},
					&cli.StringArg{Name: "many"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "stem",
						Usage: "общая основа перед окончаниями",
					},
					&cli.StringFlag{
						Name:  "forms",
						Usage: "три формы через запятую, можно с пустой: \",а,ов\"",
					},
					&cli.BoolFlag{
						Name:  "no-number",
						Usage: "не печатать число",
					},
				},
			},
			{
				Name:   "now",
				Usage:  "текущее время",
				Action: c.nowAction,
			},
			{
				Name:   "hash",
				Usage:  "хеш пароля для ADMIN_PASSWORD_HASH",
				Action: c.hashAction,
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "password"},
				},
			},
		},
	}
	return cmd.Run(ctx, args)
}

func (c *Cli) formatter(cmd *cli.Command) (*humanize.Formatter, error) {
	loc, err := common.LoadLocation(cmd.String("tz"))
	if err != nil {
		return nil, fmt.Errorf("--tz: %w", err)
	}

	l := locale.Russian()
	if path := cmd.String("locale-file"); path != "" {
		if l, err = locale.LoadFile(path); err != nil {
			return nil, fmt.Errorf("--locale-file: %w", err)
		}
	}

	return humanize.New(humanize.Config{
		Locale:            l,
		Clock:             c.clock,
		Location:          loc,
		TrackMicroseconds: cmd.Bool("micro"),
		OmitCurrentYear:   !cmd.Bool("keep-year"),
	}), nil
}
