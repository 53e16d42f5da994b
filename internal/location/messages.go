package location

import "strings"

type Device int

const (
	DeviceGeneric Device = iota
	DeviceIOSSafari
	DeviceAndroidChrome
)

// DetectDevice recognizes the two mobile browser/OS pairs that get specific
// remediation copy.
func DetectDevice(userAgent string) Device {
	ua := userAgent
	switch {
	case containsAny(ua, "iPhone", "iPad", "iPod") &&
		strings.Contains(ua, "Safari") &&
		!containsAny(ua, "CriOS", "FxiOS", "EdgiOS", "OPiOS"):
		return DeviceIOSSafari
	case strings.Contains(ua, "Android") &&
		strings.Contains(ua, "Chrome/") &&
		!containsAny(ua, "EdgA", "SamsungBrowser", "OPR", "Firefox"):
		return DeviceAndroidChrome
	default:
		return DeviceGeneric
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Message returns the notification title and body for a failure kind.
func Message(kind Kind, device Device) (title, body string) {
	switch kind {
	case KindPermissionDenied:
		title = "Permissão de localização negada"
		switch device {
		case DeviceIOSSafari:
			body = "Abra Ajustes > Privacidade e Segurança > Serviços de Localização > Sites do Safari e escolha \"Ao Usar o App\". Depois recarregue a página."
		case DeviceAndroidChrome:
			body = "Toque no cadeado ao lado do endereço, abra Permissões e ative Localização. Depois recarregue a página."
		default:
			body = "Autorize o acesso à localização nas configurações do navegador e tente novamente."
		}
	case KindPositionUnavailable:
		title = "Localização indisponível"
		switch device {
		case DeviceIOSSafari:
			body = "Verifique se os Serviços de Localização estão ativados em Ajustes e tente novamente em área aberta."
		case DeviceAndroidChrome:
			body = "Ative a localização do aparelho no painel de configurações rápidas e tente novamente."
		default:
			body = "Não foi possível determinar sua posição. Verifique o GPS ou a conexão e tente novamente."
		}
	case KindTimeout:
		title = "Tempo esgotado ao obter localização"
		switch device {
		case DeviceIOSSafari:
			body = "O iPhone demorou para responder. Confirme que o Safari tem acesso à localização e tente novamente."
		case DeviceAndroidChrome:
			body = "Ative a localização em modo de alta precisão em Configurações > Localização e tente novamente."
		default:
			body = "A localização demorou demais para responder. Tente novamente."
		}
	default:
		title = "Erro ao obter localização"
		body = "Ocorreu um erro inesperado ao obter sua localização. Tente novamente."
	}
	return title, body
}

const (
	unsupportedTitle = "Localização não suportada"
	unsupportedBody  = "Este dispositivo não oferece nenhum serviço de localização."
	successTitle     = "Localização obtida"
	successBody      = "Sua posição atual será usada como ponto de partida."
)
