package i18n

var catalogs = map[string]map[string]string{
	English: {
		"auth.login.email":               "Email Address",
		"auth.login.password":            "Password",
		"auth.login.success":             "Signed in as {{name}} ({{role}})",
		"auth.register.full_name":        "Full Name",
		"auth.register.confirm":          "Confirm Password",
		"auth.register.success":          "Account created for {{name}}",
		"auth.logout.success":            "Signed out",
		"auth.errors.passwords_no_match": "Passwords do not match",
		"auth.errors.password_too_short": "Password must be at least 6 characters long",
		"auth.errors.login_required":     "Please log in first: librarian login",

		"books.title":      "Browse Our Collection",
		"books.all_genres": "All",
		"books.available":  "available",
		"books.per_day":    "/day",
		"books.page":       "Page {{page}} of {{pages}} ({{total}} books)",
		"books.empty":      "No books found",
		"books.cached":     "Showing cached results from {{time}}",

		"book.isbn":             "ISBN",
		"book.daily_rate":       "Daily Rate",
		"book.available_copies": "Available",
		"book.description":      "Description",
		"book.unavailable":      "Currently Unavailable",
		"book.success_message":  "Book borrowed successfully!",
		"book.due":              "Due {{date}}",
		"book.deleted":          "Book deleted",
		"book.saved":            "Saved {{title}} ({{id}})",

		"dashboard.title":              "My Dashboard",
		"dashboard.welcome":            "Welcome back, {{name}}!",
		"dashboard.active_borrowings":  "Active Borrowings",
		"dashboard.completed":          "Completed",
		"dashboard.total_books":        "Total Books",
		"dashboard.total_fees":         "Total Fees",
		"dashboard.currently_borrowed": "Currently Borrowed Books",
		"dashboard.borrowed":           "Borrowed",
		"dashboard.due":                "Due",
		"dashboard.current_fee":        "Current Fee",
		"dashboard.late_fee":           "+{{amount}} late",
		"dashboard.borrowing_history":  "Borrowing History",
		"dashboard.no_books_title":     "No Books Borrowed Yet",
		"dashboard.returned":           "Returned",
		"dashboard.status":             "Status",
		"dashboard.returned_success":   "Returned. Total fee {{total}} (late {{late}})",

		"admin.users":        "Users",
		"admin.borrowings":   "Borrowings",
		"admin.user":         "User",
		"admin.role":         "Role",
		"admin.member_since": "Member Since",
		"admin.book":         "Book",
		"admin.seeded":       "Seeded {{count}} books",
		"admin.seed_failed":  "Skipped {{title}}: {{error}}",

		"status.borrowed": "Borrowed",
		"status.returned": "Returned",
		"status.overdue":  "Overdue",
		"status.active":   "Active",
		"status.inactive": "Inactive",

		"role.admin": "Admin",
		"role.user":  "User",

		"health.ok":           "Server {{status}}, database {{database}}",
		"common.language":     "Language",
		"common.language_set": "Language set to {{lang}}",
		"common.retry":        "Please try again in a moment.",
		"errors.unavailable":  "The library server cannot be reached.",
		"errors.store_down":   "The library database is unavailable.",
		"errors.request":      "Error: {{message}}",
	},
	French: {
		"auth.login.email":               "Adresse Email",
		"auth.login.password":            "Mot de Passe",
		"auth.login.success":             "Connecté en tant que {{name}} ({{role}})",
		"auth.register.full_name":        "Nom Complet",
		"auth.register.confirm":          "Confirmer le Mot de Passe",
		"auth.register.success":          "Compte créé pour {{name}}",
		"auth.logout.success":            "Déconnecté",
		"auth.errors.passwords_no_match": "Les mots de passe ne correspondent pas",
		"auth.errors.password_too_short": "Le mot de passe doit contenir au moins 6 caractères",
		"auth.errors.login_required":     "Veuillez d'abord vous connecter : librarian login",

		"books.title":      "Parcourir Notre Collection",
		"books.all_genres": "Toutes",
		"books.available":  "disponible",
		"books.per_day":    "/jour",
		"books.page":       "Page {{page}} sur {{pages}} ({{total}} livres)",
		"books.empty":      "Aucun livre trouvé",
		"books.cached":     "Résultats en cache du {{time}}",

		"book.isbn":             "ISBN",
		"book.daily_rate":       "Tarif Journalier",
		"book.available_copies": "Disponible",
		"book.description":      "Description",
		"book.unavailable":      "Actuellement Indisponible",
		"book.success_message":  "Livre emprunté avec succès !",
		"book.due":              "Échéance {{date}}",
		"book.deleted":          "Livre supprimé",
		"book.saved":            "{{title}} enregistré ({{id}})",

		"dashboard.title":              "Mon Tableau de Bord",
		"dashboard.welcome":            "Bon retour, {{name}} !",
		"dashboard.active_borrowings":  "Emprunts Actifs",
		"dashboard.completed":          "Terminés",
		"dashboard.total_books":        "Total des Livres",
		"dashboard.total_fees":         "Frais Totaux",
		"dashboard.currently_borrowed": "Livres Actuellement Empruntés",
		"dashboard.borrowed":           "Emprunté",
		"dashboard.due":                "Échéance",
		"dashboard.current_fee":        "Frais Actuels",
		"dashboard.late_fee":           "+{{amount}} retard",
		"dashboard.borrowing_history":  "Historique des Emprunts",
		"dashboard.no_books_title":     "Aucun Livre Emprunté",
		"dashboard.returned":           "Retourné",
		"dashboard.status":             "Statut",
		"dashboard.returned_success":   "Retourné. Frais totaux {{total}} (retard {{late}})",

		"admin.users":        "Utilisateurs",
		"admin.borrowings":   "Emprunts",
		"admin.user":         "Utilisateur",
		"admin.role":         "Rôle",
		"admin.member_since": "Membre Depuis",
		"admin.book":         "Livre",
		"admin.seeded":       "{{count}} livres ajoutés",

		"status.borrowed": "Emprunté",
		"status.returned": "Retourné",
		"status.overdue":  "En Retard",
		"status.active":   "Actif",
		"status.inactive": "Inactif",

		"role.admin": "Administrateur",
		"role.user":  "Utilisateur",

		"health.ok":           "Serveur {{status}}, base de données {{database}}",
		"common.language":     "Langue",
		"common.language_set": "Langue définie sur {{lang}}",
		"common.retry":        "Veuillez réessayer dans un instant.",
		"errors.unavailable":  "Le serveur de la bibliothèque est injoignable.",
		"errors.store_down":   "La base de données de la bibliothèque est indisponible.",
		"errors.request":      "Erreur : {{message}}",
	},
}
