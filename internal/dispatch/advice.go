package dispatch

import (
	"fmt"
	"strconv"
)

// Fixed advice pools; the reply is a uniform random pick.
var studyTips = []string{
	"Pomodoro tekniği: 25 dakika çalış, 5 dakika mola. Odaklanmanızı artırır!",
	"Aktif öğrenme: Okuduklarınızı kendi cümlelerinizle not alın. Pasif okumadan çok daha etkili!",
	"Hafızayı güçlendirme: Öğrendiklerinizi başkasına anlatmaya çalışın. Anlatamazsan anlamamışsın demektir.",
	"Düzenli çalışma: Her gün aynı saatte kısa süreli çalışmak, yoğun tek seanstan daha verimlidir.",
	"Çalışma ortamı: Sessiz, aydınlık ve düzenli bir ortam konsantrasyonu artırır.",
	"Müzik seçimi: Enstrümantal müzik ya da doğa sesleri odaklanmayı kolaylaştırabilir.",
	"Özet çıkarma: Her konuyu bitirdiğinizde kısa bir özet yapın. Tekrar için altın değerinde!",
	"Tekrar sistemi: 1 gün, 3 gün, 1 hafta, 1 ay sonra tekrar edin. Kalıcı öğrenme böyle olur!",
}

var motivationQuotes = []string{
	"'Başarısızlık sadece tekrar denemek için bir fırsattır.' - Henry Ford",
	"Her büyük başarı küçük adımlarla başlar. Siz de bugün bir adım atın!",
	"'Yapabileceğine inandığında, yarı yoldasın demektir.' - Theodore Roosevelt",
	"Zorluklar sizi durdurmasın, her zorluk bir öğrenme fırsatıdır!",
	"Başarı sabır ister. Devam edin, çünkü siz bunu hak ediyorsunuz!",
	"'Bir gün veya birinci gün. Sen karar ver.' - Anonim",
	"Hedefinize giden yolda her gün biraz daha ilerleyin. Küçük adımlar büyük farklar yaratır!",
	"Bugün kendiniz için yaptığınız çalışma, yarının başarısıdır!",
}

const defaultStudyMinutes = 25

// handleStudyTimer is advisory text only; no timer actually runs.
func (d *Dispatcher) handleStudyTimer(text string) string {
	duration := defaultStudyMinutes
	if m := minutesRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			duration = n
		}
	}
	return fmt.Sprintf("%d dakikalık çalışma süreniz başladı! Konsantre olun, başarılar!", duration)
}
