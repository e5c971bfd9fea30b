package i18n

// Message keys. Each key is also the English text printed when no
// translation is registered for the requested language.
const (
	MsgFillFields    = "Please fill in the fields"
	MsgLoginFailed   = "Could not log in"
	MsgSignupFailed  = "Could not complete the registration"
	MsgSignupOK      = "Registration completed successfully!"
	MsgLoading       = "...Loading"
	MsgLogin         = "Login"
	MsgRegister      = "Register"
	MsgCreateAccount = "Create an account"
	MsgHaveAccount   = "I already have an account"
	MsgName          = "Name"
	MsgLoginField    = "Login field"
	MsgPassword      = "Password"
	MsgWelcome       = "Welcome, %s"
	MsgLogout        = "Log out"
)

// Keys lists every message key, in a stable order.
var Keys = []string{
	MsgFillFields,
	MsgLoginFailed,
	MsgSignupFailed,
	MsgSignupOK,
	MsgLoading,
	MsgLogin,
	MsgRegister,
	MsgCreateAccount,
	MsgHaveAccount,
	MsgName,
	MsgLoginField,
	MsgPassword,
	MsgWelcome,
	MsgLogout,
}

var portuguese = map[string]string{
	MsgFillFields:    "Favor preencher os campos",
	MsgLoginFailed:   "Ocorreu erro ao efetuar login",
	MsgSignupFailed:  "Ocorreu erro ao efetuar o cadastro",
	MsgSignupOK:      "Cadastro realizado com sucesso!",
	MsgLoading:       "...Carregando",
	MsgLogin:         "Login",
	MsgRegister:      "Cadastrar",
	MsgCreateAccount: "Criar uma conta",
	MsgHaveAccount:   "Já tenho conta",
	MsgName:          "Nome",
	MsgLoginField:    "Login",
	MsgPassword:      "Senha",
	MsgWelcome:       "Bem-vindo, %s",
	MsgLogout:        "Sair",
}

var english = map[string]string{
	MsgLoginField: "Login",
}
