package prototype

import "github.com/Emberalive/laptop-chatbot-sub000/internal/domain/preference"

// canonicalSentences describe each use case; their mean embedding is the prototype.
var canonicalSentences = map[preference.UseCase][]string{
	preference.Gaming: {
		"A powerful gaming laptop with a dedicated RTX graphics card and a high refresh rate screen.",
		"I want to play the latest AAA games at high settings and smooth frame rates.",
		"Laptop for esports, streaming games and playing titles like Cyberpunk or Call of Duty.",
		"High performance machine with strong GPU cooling for long gaming sessions.",
	},
	preference.Student: {
		"An affordable lightweight laptop for university lectures, note taking and essays.",
		"Laptop for school work, online classes, research and writing assignments.",
		"Budget friendly portable laptop with long battery life for studying on campus.",
		"Something reliable for homework, Google Docs and video calls with classmates.",
	},
	preference.Business: {
		"A professional business laptop for office work, spreadsheets and presentations.",
		"Secure laptop with a fingerprint reader for meetings, email and Microsoft Office.",
		"Lightweight premium ultrabook for travelling consultants and remote work video calls.",
		"Durable work laptop with a good keyboard, webcam and all day battery.",
	},
	preference.Programming: {
		"A laptop for software development, coding and compiling large projects.",
		"Machine for programming with plenty of RAM to run Docker, IDEs and virtual machines.",
		"Developer laptop for web development, Python, data science and machine learning.",
		"Fast processor and a sharp screen for writing code all day in the terminal.",
	},
	preference.Creative: {
		"A laptop for video editing, photo editing and graphic design work.",
		"Colour accurate high resolution display for Photoshop, Premiere Pro and Lightroom.",
		"Creative workstation for 3D modelling, rendering, animation and music production.",
		"Powerful laptop for content creators editing 4K footage and designing in Blender.",
	},
	preference.General: {
		"An everyday laptop for browsing the web, watching Netflix and checking email.",
		"Simple home laptop for the family, online shopping and social media.",
		"Basic laptop for casual use, streaming videos and light document editing.",
		"A dependable all-rounder for general day to day tasks.",
	},
}

// domainSentences describe the laptop-shopping topic as a whole.
var domainSentences = []string{
	"I am looking to buy a new laptop computer.",
	"Recommend me a notebook with a good screen, processor, memory and storage.",
	"Which laptop brand and model should I get within my budget?",
	"Compare laptop specs, prices, ports, battery life and screen size.",
	"I need a computer for work, study or gaming.",
}

// CanonicalSentences returns the descriptive sentences for uc.
func CanonicalSentences(uc preference.UseCase) []string {
	return canonicalSentences[uc]
}
