package email

// Every body template is rendered inside layoutTemplate as "body".

const layoutTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body { font-family: Georgia, 'Times New Roman', serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #7c3f58; color: white; padding: 24px; text-align: center; border-radius: 8px 8px 0 0; }
        .content { background: #fff; padding: 24px; border: 1px solid #eadfe3; border-top: none; }
        .footer { background: #faf6f7; padding: 16px; text-align: center; font-size: 12px; color: #7a6a70; border: 1px solid #eadfe3; border-top: none; border-radius: 0 0 8px 8px; }
        .button { display: inline-block; background: #7c3f58; color: white; padding: 10px 24px; text-decoration: none; border-radius: 6px; margin: 16px 0; }
        .info-box { background: #faf6f7; padding: 16px; border-radius: 6px; margin: 16px 0; }
    </style>
</head>
<body>
    <div class="header"><h1>{{.SiteName}}</h1></div>
    <div class="content">{{template "body" .}}</div>
    <div class="footer">
        <p>&copy; {{.Year}} {{.SiteName}}</p>
        <p>This is an automated message. Please do not reply to this email.</p>
    </div>
</body>
</html>
`

var bodyTemplates = map[string]string{
	TemplateWelcome: `
<h2>Welcome, {{.Username}}!</h2>
<p>Your account has been created. You can now sign up for our workshops and follow upcoming events.</p>
<a href="{{.BaseURL}}/events" class="button">See upcoming events</a>
`,
	TemplatePasswordReset: `
<h2>Password reset</h2>
<p>Hello {{.Username}}, we received a request to reset your password.</p>
<a href="{{.ResetURL}}" class="button">Choose a new password</a>
<p>This link expires shortly. If you did not ask for a reset, you can ignore this email.</p>
`,
	TemplateNewsletter: `
<h2>{{.Title}}</h2>
<div>{{.Content}}</div>
<p style="font-size: 12px;"><a href="{{.UnsubscribeURL}}">Unsubscribe</a></p>
`,
	TemplateContactNotification: `
<h2>New contact request</h2>
<div class="info-box">
    <p><strong>Type:</strong> {{.Contact.Type}}</p>
    <p><strong>Name:</strong> {{.Contact.Name}}</p>
    <p><strong>Email:</strong> {{.Contact.Email}}</p>
    {{if .Contact.PhoneNumber}}<p><strong>Phone:</strong> {{.Contact.PhoneNumber}}</p>{{end}}
    {{if .Contact.Rating}}<p><strong>Rating:</strong> {{.Contact.Rating}}/5</p>{{end}}
</div>
<p>{{.Contact.Message}}</p>
`,
	TemplateContactConfirmation: `
<h2>Thank you, {{.Contact.Name}}</h2>
<p>We received your message and will get back to you soon.</p>
<div class="info-box"><p>{{.Contact.Message}}</p></div>
`,
}
