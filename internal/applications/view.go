package applications

import "hearthub/internal/models"

// View is an application decorated with the display state shown on dashboards.
type View struct {
	Application   *models.RentalApplication `json:"application"`
	Badge         Badge                     `json:"badge"`
	StatusMessage string                    `json:"status_message"`
	AnnualIncome  *float64                  `json:"annual_income"`
}

func NewView(app *models.RentalApplication) View {
	return View{
		Application:   app,
		Badge:         StatusBadge(app.Status),
		StatusMessage: StatusMessage(app.Status),
		AnnualIncome:  AnnualIncome(app.MonthlyIncome),
	}
}

// Dashboard is a list of applications with its status counts.
type Dashboard struct {
	Stats        ApplicationStats `json:"stats"`
	Applications []View           `json:"applications"`
}

func NewDashboard(apps []*models.RentalApplication) Dashboard {
	views := make([]View, 0, len(apps))
	for _, app := range apps {
		views = append(views, NewView(app))
	}
	return Dashboard{
		Stats:        CalculateApplicationStats(apps),
		Applications: views,
	}
}
