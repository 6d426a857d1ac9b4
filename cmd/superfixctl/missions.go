package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/superfix/superfix-backend/internal/capture"
	"github.com/superfix/superfix-backend/internal/domain/valueobject"
	"github.com/superfix/superfix-backend/internal/dto"
	missiondto "github.com/superfix/superfix-backend/internal/interface/http/dto"
	"github.com/superfix/superfix-backend/internal/portal"
	"github.com/superfix/superfix-backend/internal/session"
)

var (
	flagView   string
	flagPhoto  string
	flagFacing string
	flagYes    bool
)

var missionsCmd = &cobra.Command{
	Use:   "missions",
	Short: "Заявки героя: активные и история",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireRole(session.RoleHero); err != nil {
			return err
		}
		c := portal.NewController(cur.api, nil, cur.sess.HeroID())
		if err := c.Refresh(cmd.Context()); err != nil {
			return err
		}
		b := c.Board()
		if flagJSON {
			return printJSON(cmd, b)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "доверие: %d  выполнено: %d\n", b.Stats.TrustFactor, b.Stats.MissionsCompleted)
		switch flagView {
		case "active":
			printMissions(out, "Активные", b.Active)
		case "history":
			printMissions(out, "История", b.History)
		case "", "all":
			printMissions(out, "Активные", b.Active)
			printMissions(out, "История", b.History)
		default:
			return fmt.Errorf("неизвестный вид %q: active, history или all", flagView)
		}
		return nil
	},
}

func printMissions(w io.Writer, title string, list []missiondto.MissionResponse) {
	fmt.Fprintf(w, "\n%s (%d)\n", title, len(list))
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tСТАТУС\tКЛИЕНТ\tТЕЛЕФОН\tДАТА\tДЕЙСТВИЯ")
	for _, m := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			m.ID, m.Status, m.ClientName, m.ClientPhone,
			m.Date.Format("02.01.2006"), actionsFor(m.Status))
	}
	tw.Flush()
}

func actionsFor(status string) string {
	s, err := valueobject.NewMissionStatus(status)
	if err != nil {
		return "-"
	}
	var names []string
	for _, a := range valueobject.AvailableActions(s) {
		names = append(names, string(a))
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ",")
}

// photoEvidence снимает доказательство из файла через сеанс камеры.
func photoEvidence(cmd *cobra.Command) portal.EvidenceFunc {
	return func(ctx context.Context) (string, bool, error) {
		if flagPhoto == "" {
			return "", false, fmt.Errorf("для этого действия нужно фото: --photo <файл>")
		}
		camera := capture.FileCamera{Path: flagPhoto, Facing: capture.Facing(flagFacing)}
		return capture.Run(ctx, camera, nil, func(*capture.Session) bool {
			return confirm(cmd, fmt.Sprintf("Отправить %s как доказательство?", flagPhoto))
		})
	}
}

func confirm(cmd *cobra.Command, question string) bool {
	if flagYes {
		return true
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "da", "д", "да":
		return true
	}
	return false
}

var actionShort = map[valueobject.MissionAction]string{
	valueobject.ActionAccept: "Принять заявку",
	valueobject.ActionReject: "Отклонить заявку",
	valueobject.ActionBegin:  "Начать работу (фото \"до\")",
	valueobject.ActionFinish: "Завершить работу (фото \"после\")",
	valueobject.ActionCancel: "Отменить заявку",
}

func missionActionCmds() []*cobra.Command {
	actions := []valueobject.MissionAction{
		valueobject.ActionAccept, valueobject.ActionReject, valueobject.ActionBegin,
		valueobject.ActionFinish, valueobject.ActionCancel,
	}
	cmds := make([]*cobra.Command, 0, len(actions))
	for _, action := range actions {
		action := action
		cmd := &cobra.Command{
			Use:   string(action) + " <id>",
			Short: actionShort[action],
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := requireRole(session.RoleHero); err != nil {
					return err
				}
				c := portal.NewController(cur.api, photoEvidence(cmd), cur.sess.HeroID())
				defer c.Close()
				if err := c.Refresh(cmd.Context()); err != nil {
					return err
				}
				if err := c.PerformByID(cmd.Context(), args[0], action); err != nil {
					return err
				}
				m, _ := c.Board().Find(args[0])
				fmt.Fprintf(cmd.OutOrStdout(), "заявка %s: %s\n", args[0], m.Status)
				return nil
			},
		}
		if action == valueobject.ActionBegin || action == valueobject.ActionFinish {
			cmd.Flags().StringVar(&flagPhoto, "photo", "", "файл JPEG/PNG с фото")
			cmd.Flags().StringVar(&flagFacing, "facing", string(capture.FacingEnvironment), "камера: environment или user")
			cmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "не спрашивать подтверждение")
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}

var (
	onboarding dto.OnboardingRequest
	flagAreas  []string
	flagRate   float64
)

var onboardingCmd = &cobra.Command{
	Use:   "onboarding",
	Short: "Заполнить анкету героя",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireRole(session.RoleHero); err != nil {
			return err
		}
		onboarding.HeroID = cur.sess.HeroID()
		onboarding.ActionAreas = flagAreas
		onboarding.HourlyRate = valueobject.FlexibleFloat{Value: flagRate, Set: cmd.Flags().Changed("rate")}
		if err := portal.SubmitOnboarding(cmd.Context(), cur.api, onboarding); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "анкета сохранена")
		return nil
	},
}

func init() {
	missionsCmd.Flags().StringVar(&flagView, "view", "all", "active, history или all")

	f := onboardingCmd.Flags()
	f.StringVar(&onboarding.Alias, "alias", "", "псевдоним")
	f.StringVar(&onboarding.Description, "description", "", "о себе")
	f.Float64Var(&flagRate, "rate", 0, "ставка в час")
	f.StringSliceVar(&flagAreas, "areas", nil, "районы через запятую")
	f.StringVar(&onboarding.AvatarURL, "avatar", "", "ссылка на аватар")
	f.StringVar(&onboarding.VideoURL, "video", "", "ссылка на видео")
}
