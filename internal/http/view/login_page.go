package view

import (
	"bytes"
	"html/template"
)

// LoginPageData fills the admin login form.
type LoginPageData struct {
	Email string
	Error string
}

var loginPageTmpl = template.Must(template.New("login_page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="utf-8" />
	<meta name="viewport" content="width=device-width, initial-scale=1" />
	<title>LinkDesk · Sign in</title>
	<style>
		:root {
			--bg: #0b1020;
			--card: rgba(255, 255, 255, 0.05);
			--border: rgba(255, 255, 255, 0.14);
			--text: #e7ecff;
			--muted: #a1acc5;
			--accent: #7dd3fc;
			--danger: #fca5a5;
			font-family: "Inter", -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif;
		}
		* { box-sizing: border-box; }
		body {
			margin: 0;
			min-height: 100vh;
			display: flex;
			align-items: center;
			justify-content: center;
			background: radial-gradient(circle at 20% 20%, #111827, #030712 60%);
			color: var(--text);
		}
		form {
			background: var(--card);
			border: 1px solid var(--border);
			border-radius: 18px;
			padding: 32px;
			width: min(420px, 92vw);
		}
		h1 { font-size: 1.4rem; margin: 0 0 20px; }
		label { display: block; font-size: 0.85rem; color: var(--muted); margin: 14px 0 6px; }
		input {
			width: 100%;
			height: 42px;
			padding: 0 12px;
			border-radius: 10px;
			border: 1px solid var(--border);
			background: rgba(0, 0, 0, 0.25);
			color: var(--text);
		}
		button {
			margin-top: 24px;
			width: 100%;
			height: 44px;
			border: 0;
			border-radius: 999px;
			background: var(--accent);
			color: #050708;
			font-weight: 600;
			cursor: pointer;
		}
		.error {
			padding: 10px 12px;
			border-radius: 10px;
			background: rgba(252, 165, 165, 0.1);
			border: 1px solid rgba(252, 165, 165, 0.3);
			color: var(--danger);
		}
	</style>
</head>
<body>
	<form method="post" action="/login">
		<h1>Admin sign in</h1>
		{{if .Error}}<div class="error" role="alert">{{.Error}}</div>{{end}}
		<label for="email">Email</label>
		<input id="email" name="email" type="email" value="{{.Email}}" autocomplete="username" required autofocus />
		<label for="password">Password</label>
		<input id="password" name="password" type="password" autocomplete="current-password" required />
		<button type="submit">Sign in</button>
	</form>
</body>
</html>
`))

// RenderLoginPage expands the login template.
func RenderLoginPage(data LoginPageData) (string, error) {
	var buf bytes.Buffer
	if err := loginPageTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
