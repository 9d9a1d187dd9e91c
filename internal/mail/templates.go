package mail

import "fmt"

// ApplicationNotification builds the email sent to an employer when a new
// application arrives for one of their jobs.
func ApplicationNotification(jobTitle, applicantName string) (subject, body string) {
	subject = fmt.Sprintf("New Application for %s", jobTitle)
	body = fmt.Sprintf(`<h2>New Job Application</h2>
<p>You have received a new application for the position: <strong>%s</strong></p>
<p>Applicant: <strong>%s</strong></p>
<p>Please log in to your dashboard to review the application.</p>`, jobTitle, applicantName)
	return subject, body
}

// ApplicationConfirmation builds the email sent to an applicant confirming
// their submission went through.
func ApplicationConfirmation(jobTitle, companyName string) (subject, body string) {
	subject = fmt.Sprintf("Application Confirmation - %s", jobTitle)
	body = fmt.Sprintf(`<h2>Application Submitted Successfully</h2>
<p>Your application for <strong>%s</strong> at <strong>%s</strong> has been submitted successfully.</p>
<p>We will notify you if there are any updates regarding your application.</p>
<p>Good luck!</p>`, jobTitle, companyName)
	return subject, body
}
