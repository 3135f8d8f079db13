package store

// Credential es la identidad única del operador. Existe exactamente una por
// proceso; solo cambia el digest vía ChangePassword.
type Credential struct {
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
}

// SMTPConfig son los settings de transmisión de correo saliente.
// Es cero-o-uno en el aggregate y se reemplaza completo en cada save.
type SMTPConfig struct {
	Host      string `json:"host"`
	Port      int    `json:"port"`
	Secure    bool   `json:"secure"` // TLS implícito (SMTPS)
	User      string `json:"user"`
	Password  string `json:"password"`
	FromName  string `json:"fromName,omitempty"`
	FromEmail string `json:"fromEmail"`
}

// Template es un mensaje reutilizable. El ID es opaco y nunca se reusa;
// la colección mantiene orden de inserción y no tiene operación de update.
type Template struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// data es el aggregate persistido: credencial + smtp opcional + templates.
type data struct {
	User      Credential  `json:"user"`
	SMTP      *SMTPConfig `json:"smtp"`
	Templates []Template  `json:"templates"`
}
