package google

// OAuthScopes are the Google OAuth scopes meetprep needs:
//   - Gmail: read invitations, label processed ones, send the task list
//   - Drive/Docs/Sheets/Slides: read-only access to linked attachments
var OAuthScopes = []string{
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/gmail.modify",
	"https://www.googleapis.com/auth/gmail.send",
	"https://www.googleapis.com/auth/drive.readonly",
	"https://www.googleapis.com/auth/documents.readonly",
	"https://www.googleapis.com/auth/spreadsheets.readonly",
	"https://www.googleapis.com/auth/presentations.readonly",
}
