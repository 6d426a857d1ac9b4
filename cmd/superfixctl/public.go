package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/superfix/superfix-backend/internal/client"
	"github.com/superfix/superfix-backend/internal/dto"
	missiondto "github.com/superfix/superfix-backend/internal/interface/http/dto"
	"github.com/superfix/superfix-backend/internal/portal"
)

var heroQuery client.HeroQuery

var heroesCmd = &cobra.Command{
	Use:   "heroes [id]",
	Short: "Каталог героев или карточка одного героя",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			h, err := cur.api.GetHero(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, h)
		}

		list, err := cur.api.ListHeroes(cmd.Context(), heroQuery)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(cmd, list)
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tПСЕВДОНИМ\tКАТЕГОРИЯ\tСТАВКА\tДОВЕРИЕ\tВЫПОЛНЕНО")
		for _, h := range list {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%.0f\t%d\t%d\n",
				h.ID, h.Alias, h.Category, h.HourlyRate, h.TrustFactor, h.MissionsCompleted)
		}
		return tw.Flush()
	},
}

var contactForm missiondto.CreateRequestRequest

var contactCmd = &cobra.Command{
	Use:   "contact <heroId>",
	Short: "Отправить заявку герою",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		contactForm.HeroID = args[0]
		m, err := portal.SubmitContact(cmd.Context(), cur.api, contactForm)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "заявка отправлена: %s\n", m.ID)
		return nil
	},
}

var reviewForm dto.CreateReviewRequest

var reviewCmd = &cobra.Command{
	Use:   "review <heroId>",
	Short: "Оставить отзыв о герое",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reviewForm.HeroID = args[0]
		if _, err := portal.SubmitReview(cmd.Context(), cur.api, cur.sess, reviewForm); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "спасибо за отзыв")
		return nil
	},
}

var applyForm dto.ApplyHeroRequest

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Подать анкету, чтобы стать героем",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cur.api.ApplyHero(cmd.Context(), applyForm); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "анкета отправлена")
		return nil
	},
}

func init() {
	hq := heroesCmd.Flags()
	hq.StringVar(&heroQuery.Category, "category", "", "категория")
	hq.StringVarP(&heroQuery.Query, "query", "q", "", "поиск по имени и навыкам")
	hq.StringSliceVar(&heroQuery.Counties, "counties", nil, "районы через запятую")

	cf := contactCmd.Flags()
	cf.StringVar(&contactForm.ClientName, "name", "", "ваше имя")
	cf.StringVar(&contactForm.ClientPhone, "phone", "", "телефон")
	cf.StringVar(&contactForm.ClientEmail, "email", "", "email")
	cf.StringVarP(&contactForm.Description, "description", "d", "", "что нужно сделать")
	cf.BoolVar(&contactForm.TermsAccepted, "accept-terms", false, "принимаю условия")

	rf := reviewCmd.Flags()
	rf.StringVar(&reviewForm.ClientName, "name", "", "ваше имя")
	rf.IntVar(&reviewForm.Rating, "rating", 5, "оценка 1-5")
	rf.StringVar(&reviewForm.Comment, "comment", "", "комментарий")

	af := applyCmd.Flags()
	af.StringVar(&applyForm.Name, "name", "", "имя")
	af.StringVar(&applyForm.Phone, "phone", "", "телефон")
	af.StringVar(&applyForm.Email, "email", "", "email")
	af.StringVar(&applyForm.Category, "category", "", "категория")
	af.StringVar(&applyForm.Message, "message", "", "о себе")
}
