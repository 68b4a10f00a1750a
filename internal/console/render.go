package console

import (
	"embed"
	"html/template"
	"io"

	"github.com/ayush/user-console/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var StaticFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// elementIDs are the page element ids handed to the templates.
type elementIDs struct {
	APIStatus      string
	DatabaseStatus string
	UserForm       string
	Username       string
	Email          string
	FormMessage    string
	UsersContainer string
}

var pageIDs = elementIDs{
	APIStatus:      ElementAPIStatus,
	DatabaseStatus: ElementDatabaseStatus,
	UserForm:       ElementUserForm,
	Username:       ElementUsername,
	Email:          ElementEmail,
	FormMessage:    ElementFormMessage,
	UsersContainer: ElementUsersContainer,
}

// noticeData feeds the shared notice template.
type noticeData struct {
	ID     string
	Notice models.Notice
}

type pageData struct {
	IDs     elementIDs
	Title   string
	Display Display
	Form    Form
	Notice  models.Notice
	Events  []models.Event
}

type confirmData struct {
	Title  string
	Prompt string
	ID     int
}

type editData struct {
	IDs    elementIDs
	Title  string
	User   models.User
	Notice models.Notice
}

func (d pageData) NoticeView() noticeData { return noticeData{ID: d.IDs.FormMessage, Notice: d.Notice} }

func (d editData) NoticeView() noticeData { return noticeData{ID: d.IDs.FormMessage, Notice: d.Notice} }

func render(w io.Writer, name string, data any) error {
	return templates.ExecuteTemplate(w, name, data)
}
