package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/superfix/superfix-backend/internal/client"
	"github.com/superfix/superfix-backend/internal/domain/valueobject"
	"github.com/superfix/superfix-backend/internal/dto"
	"github.com/superfix/superfix-backend/internal/models"
	"github.com/superfix/superfix-backend/internal/portal"
	"github.com/superfix/superfix-backend/internal/session"
)

func adminOnly(cmd *cobra.Command, args []string) error {
	return requireRole(session.RoleAdmin)
}

var requestsCmd = &cobra.Command{
	Use:     "requests",
	Short:   "Все заявки (админ)",
	PreRunE: adminOnly,
	RunE: func(cmd *cobra.Command, args []string) error {
		active, history, err := portal.NewAdmin(cur.api, nil).Requests(cmd.Context())
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(cmd, map[string]any{"active": active, "history": history})
		}
		printMissions(cmd.OutOrStdout(), "Активные", active)
		printMissions(cmd.OutOrStdout(), "История", history)
		return nil
	},
}

var requestStatusCmd = &cobra.Command{
	Use:     "request-status <id> <accept|reject|cancel>",
	Short:   "Изменить статус заявки без фото (админ)",
	Args:    cobra.ExactArgs(2),
	PreRunE: adminOnly,
	RunE: func(cmd *cobra.Command, args []string) error {
		action, err := valueobject.NewMissionAction(args[1])
		if err != nil {
			return err
		}
		admin := portal.NewAdmin(cur.api, nil)
		active, history, err := admin.Requests(cmd.Context())
		if err != nil {
			return err
		}
		m, ok := portal.Board{Active: active, History: history}.Find(args[0])
		if !ok {
			return portal.ErrMissionNotLoaded
		}
		updated, err := admin.UpdateStatus(cmd.Context(), m, action)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "заявка %s: %s\n", updated.ID, updated.Status)
		return nil
	},
}

var flagOut string

var dossierCmd = &cobra.Command{
	Use:     "dossier <id>",
	Short:   "Сохранить досье заявки в HTML (админ)",
	Args:    cobra.ExactArgs(1),
	PreRunE: adminOnly,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := portal.NewAdmin(cur.api, portal.DirSaver{Dir: flagOut}).SaveDossier(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var heroCmd = &cobra.Command{
	Use:   "hero",
	Short: "Управление героями (админ)",
}

var heroPayload dto.HeroPayload

type heroFlags struct {
	realName, description, category string
	avatar, video                   string
	phone, email, location          string
	powers, username                string
	rate                            float64
	trust                           int
	areas                           []string
}

var hf heroFlags

func bindHeroFlags(f *pflag.FlagSet) {
	f.StringVar(&heroPayload.Alias, "alias", "", "псевдоним")
	f.StringVar(&hf.realName, "real-name", "", "настоящее имя")
	f.StringVar(&hf.description, "description", "", "описание")
	f.StringVar(&hf.category, "category", "", "категория")
	f.Float64Var(&hf.rate, "rate", 0, "ставка в час")
	f.StringVar(&hf.avatar, "avatar", "", "ссылка на аватар")
	f.StringVar(&hf.video, "video", "", "ссылка на видео")
	f.StringVar(&hf.phone, "phone", "", "телефон")
	f.StringVar(&hf.email, "email", "", "email")
	f.StringVar(&hf.location, "location", "", "город")
	f.StringVar(&hf.powers, "powers", "", "навыки")
	f.StringSliceVar(&hf.areas, "areas", nil, "районы через запятую")
	f.IntVar(&hf.trust, "trust", 0, "фактор доверия")
	f.StringVar(&hf.username, "username", "", "логин героя")
	f.StringVar(&heroPayload.Password, "password", "", "пароль героя")
}

// applyHeroFlags переносит в payload только явно заданные флаги.
func applyHeroFlags(f *pflag.FlagSet, p *dto.HeroPayload) {
	set := func(name string, dst **string, v string) {
		if f.Changed(name) {
			*dst = &v
		}
	}
	if f.Changed("alias") {
		p.Alias = heroPayload.Alias
	}
	if f.Changed("password") {
		p.Password = heroPayload.Password
	}
	set("real-name", &p.RealName, hf.realName)
	set("description", &p.Description, hf.description)
	set("category", &p.Category, hf.category)
	set("avatar", &p.AvatarURL, hf.avatar)
	set("video", &p.VideoURL, hf.video)
	set("phone", &p.Phone, hf.phone)
	set("email", &p.Email, hf.email)
	set("location", &p.Location, hf.location)
	set("powers", &p.Powers, hf.powers)
	set("username", &p.Username, hf.username)
	if f.Changed("rate") {
		p.HourlyRate = valueobject.FlexibleFloat{Value: hf.rate, Set: true}
	}
	if f.Changed("areas") {
		p.ActionAreas = hf.areas
	}
	if f.Changed("trust") {
		trust := hf.trust
		p.TrustFactor = &trust
	}
}

// payloadFromHero - обновление полное, поэтому начинаем с текущих значений.
func payloadFromHero(h *models.Hero) dto.HeroPayload {
	desc, cat := h.Description, h.Category
	trust := h.TrustFactor
	return dto.HeroPayload{
		Alias:       h.Alias,
		RealName:    h.RealName,
		Description: &desc,
		Category:    &cat,
		HourlyRate:  valueobject.FlexibleFloat{Value: h.HourlyRate, Set: true},
		AvatarURL:   h.AvatarURL,
		VideoURL:    h.VideoURL,
		Phone:       h.Phone,
		Email:       h.Email,
		Location:    h.Location,
		Powers:      h.Powers,
		ActionAreas: h.ActionAreas,
		TrustFactor: &trust,
		Username:    h.Username,
	}
}

var heroCreateCmd = &cobra.Command{
	Use:     "create",
	Short:   "Добавить героя",
	PreRunE: adminOnly,
	RunE: func(cmd *cobra.Command, args []string) error {
		var p dto.HeroPayload
		applyHeroFlags(cmd.Flags(), &p)
		h, err := portal.SaveHero(cmd.Context(), cur.api, "", p)
		if err != nil {
			return err
		}
		return printJSON(cmd, h)
	},
}

var heroUpdateCmd = &cobra.Command{
	Use:     "update <id>",
	Short:   "Изменить героя",
	Args:    cobra.ExactArgs(1),
	PreRunE: adminOnly,
	RunE: func(cmd *cobra.Command, args []string) error {
		existing, err := cur.api.GetHero(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		p := payloadFromHero(existing)
		applyHeroFlags(cmd.Flags(), &p)
		h, err := portal.SaveHero(cmd.Context(), cur.api, args[0], p)
		if err != nil {
			return err
		}
		return printJSON(cmd, h)
	},
}

var heroDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Short:   "Удалить героя",
	Args:    cobra.ExactArgs(1),
	PreRunE: adminOnly,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirm(cmd, "Удалить героя "+args[0]+"?") {
			return nil
		}
		return cur.api.DeleteHero(cmd.Context(), args[0])
	},
}

var applicationsCmd = &cobra.Command{
	Use:     "applications",
	Short:   "Анкеты кандидатов (админ)",
	PreRunE: adminOnly,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := cur.api.ListApplications(cmd.Context())
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(cmd, list)
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tИМЯ\tТЕЛЕФОН\tEMAIL\tКАТЕГОРИЯ")
		for _, a := range list {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", a.ID, a.Name, a.Phone, a.Email, a.Category)
		}
		return tw.Flush()
	},
}

var applicationAcceptCmd = &cobra.Command{
	Use:     "accept <id>",
	Short:   "Принять анкету и создать героя",
	Args:    cobra.ExactArgs(1),
	PreRunE: adminOnly,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := cur.api.AcceptApplication(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "герой создан\nлогин: %s\nпароль: %s\n", res.Username, res.Password)
		return nil
	},
}

var applicationRejectCmd = &cobra.Command{
	Use:     "reject <id>",
	Short:   "Отклонить анкету",
	Args:    cobra.ExactArgs(1),
	PreRunE: adminOnly,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cur.api.RejectApplication(cmd.Context(), args[0])
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Список категорий",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := cur.api.Categories(cmd.Context())
		if err != nil {
			return err
		}
		return printList(cmd, list)
	},
}

var categoryAddCmd = &cobra.Command{
	Use:     "add <name>",
	Short:   "Добавить категорию (админ)",
	Args:    cobra.ExactArgs(1),
	PreRunE: adminOnly,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := cur.api.AddCategory(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printList(cmd, list)
	},
}

var categoryRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Short:   "Удалить категорию (админ)",
	Args:    cobra.ExactArgs(1),
	PreRunE: adminOnly,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := cur.api.RemoveCategory(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printList(cmd, list)
	},
}

func printList(cmd *cobra.Command, list []string) error {
	if flagJSON {
		return printJSON(cmd, list)
	}
	for _, s := range list {
		fmt.Fprintln(cmd.OutOrStdout(), s)
	}
	return nil
}

var uploadCmd = &cobra.Command{
	Use:     "upload <avatarUrl|videoUrl> <file>",
	Short:   "Загрузить медиа и получить ссылку (админ)",
	Args:    cobra.ExactArgs(2),
	PreRunE: adminOnly,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer f.Close()

		link, err := client.NewUploader(cur.api).Upload(cmd.Context(), args[0], filepath.Base(args[1]), f)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), link)
		return nil
	},
}

func init() {
	dossierCmd.Flags().StringVarP(&flagOut, "out", "o", ".", "каталог для файла")

	bindHeroFlags(heroCreateCmd.Flags())
	bindHeroFlags(heroUpdateCmd.Flags())
	heroDeleteCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "не спрашивать подтверждение")
	heroCmd.AddCommand(heroCreateCmd, heroUpdateCmd, heroDeleteCmd)

	applicationsCmd.AddCommand(applicationAcceptCmd, applicationRejectCmd)
	categoriesCmd.AddCommand(categoryAddCmd, categoryRemoveCmd)
}
