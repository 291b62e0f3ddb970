package email

// Message письмо для отправки через любой провайдер
type Message struct {
	To      string
	ToName  string
	Subject string
	Text    string // обязательная текстовая часть
	HTML    string // необязательная HTML часть
}
