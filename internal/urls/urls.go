package urls

// SmartConfigGuide is the Espressif guide to the device side of SmartConfig,
// covering how firmware enters provisioning mode and reports back.
const SmartConfigGuide = "https://docs.espressif.com/projects/esp-idf/en/stable/esp32/api-reference/network/esp_smartconfig.html"

// EsptouchAndroid is the reference ESP-Touch client for Android.
const EsptouchAndroid = "https://github.com/EspressifApp/EsptouchForAndroid"

// TimeoutHints lists the usual causes of an attempt that is never acknowledged.
var TimeoutHints = []string{
	"Make sure the device is in SmartConfig mode (usually a fast-blinking LED)",
	"The device only supports 2.4 GHz networks; check the SSID is not 5 GHz only",
	"Check the BSSID matches the access point the client is connected to",
	"Stay within range of the access point while the attempt runs",
}
