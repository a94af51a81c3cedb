package profile

// Default is the built-in profile the site ships with.
func Default() *Profile {
	return &Profile{
		FirstName: "LÉO",
		LastName:  "SAUVEY",
		Kicker:    "ÉTUDIANT EN RECHERCHE DE STAGE/ALTERNANCE",
		Tagline:   "Étudiant en Master of Engineering passionné par le développement web et les nouvelles technologies.",
		About: `Vous avez un projet ou une opportunité à me proposer ?
N'hésitez pas à me **contacter** !`,
		Avatar: "/static/img/placeholder.svg",
		Logo:   "/static/img/placeholder.svg",
		Skills: []SkillEntry{
			{Name: "JavaScript", Color: "bg-blue-400"},
			{Name: "React", Color: "bg-blue-500"},
			{Name: "Node.js", Color: "bg-blue-600"},
			{Name: "TypeScript", Color: "bg-blue-700"},
			{Name: "Python", Color: "bg-blue-800"},
			{Name: "Next.js", Color: "bg-slate-700"},
			{Name: "Tailwind CSS", Color: "bg-slate-600"},
			{Name: "MongoDB", Color: "bg-slate-500"},
			{Name: "Git", Color: "bg-slate-600"},
			{Name: "Docker", Color: "bg-slate-700"},
			{Name: "AWS", Color: "bg-slate-800"},
			{Name: "GraphQL", Color: "bg-slate-900"},
		},
		Projects: []ProjectEntry{
			{
				ID:          1,
				Title:       "Application Web Immersive",
				Description: "Une application web avec des visualisations 3D et des interactions utilisateur avancées.",
				Image:       "/static/img/placeholder.svg",
				Tags:        []string{"React", "Three.js", "WebGL"},
				Gradient:    "from-blue-400 to-blue-600",
			},
			{
				ID:          2,
				Title:       "Plateforme d'Apprentissage IA",
				Description: "Une plateforme éducative utilisant l'IA pour personnaliser l'expérience d'apprentissage.",
				Image:       "/static/img/placeholder.svg",
				Tags:        []string{"Python", "TensorFlow", "Next.js"},
				Gradient:    "from-slate-400 to-slate-600",
			},
			{
				ID:          3,
				Title:       "Application Mobile Cross-Platform",
				Description: "Une application mobile disponible sur iOS et Android avec synchronisation en temps réel.",
				Image:       "/static/img/placeholder.svg",
				Tags:        []string{"React Native", "Firebase", "Redux"},
				Gradient:    "from-blue-400 to-blue-600",
			},
			{
				ID:          4,
				Title:       "Dashboard Analytique",
				Description: "Un tableau de bord interactif pour visualiser et analyser des données complexes.",
				Image:       "/static/img/placeholder.svg",
				Tags:        []string{"D3.js", "Node.js", "MongoDB"},
				Gradient:    "from-slate-400 to-slate-600",
			},
		},
		Contact: Contact{
			GitHub:       "https://github.com",
			LinkedIn:     "https://linkedin.com",
			Email:        "email@example.com",
			Location:     "Caen, Normandie, France",
			Availability: "Disponible pour des stages et alternances",
		},
	}
}
