package mail

import (
	"bytes"
	"fmt"
	"html/template"
)

const (
	societyName = "Prestige Bella Vista"

	approvalSubject  = "🎉 Welcome to Prestige Bella Vista Management Committee!"
	rejectionSubject = "Prestige Bella Vista - MC Registration Update"
	resetSubject     = "Prestige Bella Vista - Password Reset"
)

var approvalTmpl = template.Must(template.New("approval").Parse(`
<div style="font-family: 'Segoe UI', Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background: #8B4513; padding: 30px; text-align: center; border-radius: 10px 10px 0 0;">
    <h1 style="color: #fff; margin: 0;">🏠 Welcome Aboard!</h1>
    <p style="color: #f0e6d3; margin: 10px 0 0 0;">{{.Society}} Management Committee</p>
  </div>
  <div style="background: #fff; padding: 30px; border: 1px solid #e0d6c8; border-top: none;">
    <p>Dear <strong>{{.Name}}</strong>,</p>
    <p>Congratulations! Your registration to join the <strong>{{.Society}} Management Committee</strong> has been approved.</p>
    <div style="border: 2px solid #8B4513; border-radius: 10px; padding: 25px; margin: 25px 0;">
      <h3 style="color: #8B4513; margin-top: 0;">🔐 Your Login Credentials</h3>
      <p>Username: <strong style="font-family: monospace;">{{.Username}}</strong></p>
      <p>Temporary Password: <strong style="font-family: monospace;">{{.TempPassword}}</strong></p>
      <p style="color: #856404; font-size: 13px;">⚠️ Please change your password after your first login for security.</p>
    </div>
    {{if .InterestGroups}}<div style="border-left: 4px solid #28a745; padding: 15px; margin: 20px 0;">
      <h4 style="color: #28a745; margin: 0 0 10px 0;">📋 Your Interest Groups</h4>
      <ul>{{range .InterestGroups}}<li>{{.}}</li>{{end}}</ul>
    </div>{{end}}
    <p style="margin-top: 30px;">Warm regards,<br><strong>Treasurer</strong><br>{{.Society}} Management</p>
  </div>
  <div style="text-align: center; padding: 20px; color: #888; font-size: 12px;">
    <p>Unit: {{.TowerNo}}-{{.UnitNo}} | Tower {{.TowerNo}}</p>
    <p>This is an automated message from {{.Society}} Society Portal</p>
  </div>
</div>`))

var rejectionTmpl = template.Must(template.New("rejection").Parse(`
<div style="font-family: 'Segoe UI', Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background: #8B4513; padding: 30px; text-align: center; border-radius: 10px 10px 0 0;">
    <h1 style="color: #fff; margin: 0;">{{.Society}}</h1>
    <p style="color: #f0e6d3; margin: 10px 0 0 0;">Management Committee</p>
  </div>
  <div style="background: #fff; padding: 30px; border: 1px solid #e0d6c8; border-top: none; border-radius: 0 0 10px 10px;">
    <h2 style="color: #8B4513; margin-top: 0;">Registration Status Update</h2>
    <p>Dear <strong>{{.Name}}</strong>,</p>
    <p>Thank you for your interest in joining the Management Committee at {{.Society}}.</p>
    <p>After careful review, we regret to inform you that your registration has not been approved at this time.</p>
    {{if .Reason}}<div style="background: #fef3cd; border-left: 4px solid #856404; padding: 15px; margin: 20px 0;"><strong>Reason:</strong> {{.Reason}}</div>{{end}}
    <p>If you have any questions or would like to discuss this decision, please reply to this email.</p>
    <p style="margin-top: 30px;">Warm regards,<br><strong>Treasurer</strong><br>{{.Society}} Management</p>
  </div>
  <div style="text-align: center; padding: 20px; color: #888; font-size: 12px;">
    <p>This is an automated message from {{.Society}} Society Portal</p>
  </div>
</div>`))

var resetTmpl = template.Must(template.New("reset").Parse(`
<div style="font-family: 'Segoe UI', Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background: #8B4513; padding: 30px; text-align: center; border-radius: 10px 10px 0 0;">
    <h1 style="color: #fff; margin: 0;">🔐 Password Reset</h1>
    <p style="color: #f0e6d3; margin: 10px 0 0 0;">{{.Society}} MC Portal</p>
  </div>
  <div style="background: #fff; padding: 30px; border: 1px solid #e0d6c8; border-top: none; border-radius: 0 0 10px 10px;">
    <p>Dear <strong>{{.Name}}</strong>,</p>
    <p>Your password has been reset as requested. Please use the following credentials to log in:</p>
    <div style="border: 2px solid #8B4513; border-radius: 10px; padding: 20px; margin: 25px 0;">
      <p>Username: <strong style="font-family: monospace;">{{.Username}}</strong></p>
      <p>New Temporary Password: <strong style="font-family: monospace;">{{.TempPassword}}</strong></p>
    </div>
    <p style="color: #856404; font-size: 14px;">⚠️ You will be prompted to change your password after logging in.</p>
    <p style="color: #dc3545; font-size: 14px;">🚨 If you did not request this reset, please reply to this email immediately.</p>
    <p style="margin-top: 30px;">Warm regards,<br><strong>Treasurer</strong><br>{{.Society}} Management</p>
  </div>
  <div style="text-align: center; padding: 20px; color: #888; font-size: 12px;">
    <p>This is an automated message from {{.Society}} Society Portal</p>
  </div>
</div>`))

// ApprovalMessage builds the credentials email sent on approval.
func ApprovalMessage(name, email, towerNo, unitNo, username, tempPassword string, interestGroups []string) (*Message, error) {
	body, err := render(approvalTmpl, map[string]any{
		"Society":        societyName,
		"Name":           name,
		"Username":       username,
		"TempPassword":   tempPassword,
		"InterestGroups": interestGroups,
		"TowerNo":        towerNo,
		"UnitNo":         unitNo,
	})
	if err != nil {
		return nil, err
	}
	return &Message{To: email, ToName: name, Subject: approvalSubject, HTMLBody: body}, nil
}

// RejectionMessage builds the notice sent on rejection. No credentials.
func RejectionMessage(name, email, reason string) (*Message, error) {
	body, err := render(rejectionTmpl, map[string]any{
		"Society": societyName,
		"Name":    name,
		"Reason":  reason,
	})
	if err != nil {
		return nil, err
	}
	return &Message{To: email, ToName: name, Subject: rejectionSubject, HTMLBody: body}, nil
}

// ResetMessage builds the email carrying a regenerated temporary password.
func ResetMessage(name, email, username, tempPassword string) (*Message, error) {
	body, err := render(resetTmpl, map[string]any{
		"Society":      societyName,
		"Name":         name,
		"Username":     username,
		"TempPassword": tempPassword,
	})
	if err != nil {
		return nil, err
	}
	return &Message{To: email, ToName: name, Subject: resetSubject, HTMLBody: body}, nil
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render email template: %w", err)
	}
	return buf.String(), nil
}
